package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

func sampleResult(url string) *domain.Result {
	return &domain.Result{
		URL:       url,
		RiskLevel: domain.VerdictSafe,
		RiskScore: 1,
		Results: []domain.ProviderResult{
			{Provider: domain.ProviderHeuristics, Verdict: domain.VerdictSafe, Score: 10, Status: domain.StatusOK,
				Details: domain.HeuristicDetails{}},
		},
		Recommendations: []string{"No action needed, but stay vigilant"},
		Explanation:     "looks fine",
	}
}

func TestMemory_RoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(24*time.Hour, clock)
	ctx := context.Background()

	res := sampleResult("https://example.com")
	require.NoError(t, m.Put(ctx, "https://example.com", res))

	clock.now = clock.now.Add(30 * time.Minute)
	got, createdAt, err := m.Get(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, res, got)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), createdAt)
}

func TestMemory_StaleEntryIsAMiss(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(24*time.Hour, clock)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "k", sampleResult("https://example.com")))

	clock.now = clock.now.Add(24*time.Hour + time.Minute)
	_, _, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemory_MissOnUnknownKey(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := NewMemory(24*time.Hour, clock)

	_, _, err := m.Get(context.Background(), "never-seen")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestMemory_LatestOrdering(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemory(24*time.Hour, clock)
	ctx := context.Background()

	for _, u := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		require.NoError(t, m.Put(ctx, u, sampleResult(u)))
		clock.now = clock.now.Add(time.Minute)
	}

	latest, err := m.Latest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "https://c.example", latest[0].URL)
	assert.Equal(t, "https://b.example", latest[1].URL)
}
