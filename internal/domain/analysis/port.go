package analysis

import (
	"context"
	"time"
)

// Provider port. Check must never fail: any internal problem is absorbed
// into a placeholder result with status skipped or error.
type Provider interface {
	Check(ctx context.Context, rawURL string, cc CheckContext) ProviderResult
}

// Resolver port for the DNS existence pre-step.
type Resolver interface {
	Resolve(ctx context.Context, host string) DNSInfo
}

// Cache port. Get returns ErrCacheMiss for absent or stale entries;
// createdAt is the write time of the returned entry.
type Cache interface {
	Get(ctx context.Context, key string) (*Result, time.Time, error)
	Put(ctx context.Context, key string, res *Result) error
	Latest(ctx context.Context, limit int) ([]*Result, error)
}

// Archive port for best-effort report storage.
type Archive interface {
	Store(ctx context.Context, key string, report []byte) (string, error)
}
