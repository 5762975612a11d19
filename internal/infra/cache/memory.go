// Package cache provides a process-local analysis cache for deployments
// without a database (dev, tests). Same TTL contract as the SQL repos.
package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/seif8911/cyberqr/internal/application"
	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

type entry struct {
	res       domain.Result
	createdAt time.Time
}

type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   application.Clock
}

func NewMemory(ttl time.Duration, clock application.Clock) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clock,
	}
}

func (m *Memory) Get(_ context.Context, key string) (*domain.Result, time.Time, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || m.clock.Now().Sub(e.createdAt) > m.ttl {
		return nil, time.Time{}, domain.ErrCacheMiss
	}
	cp := e.res
	return &cp, e.createdAt, nil
}

func (m *Memory) Put(_ context.Context, key string, res *domain.Result) error {
	m.mu.Lock()
	m.entries[key] = entry{res: *res, createdAt: m.clock.Now()}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Latest(_ context.Context, limit int) ([]*domain.Result, error) {
	if limit <= 0 {
		limit = 20
	}
	m.mu.RLock()
	all := make([]entry, 0, len(m.entries))
	for _, e := range m.entries {
		all = append(all, e)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].createdAt.After(all[j].createdAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]*domain.Result, len(all))
	for i := range all {
		cp := all[i].res
		out[i] = &cp
	}
	return out, nil
}
