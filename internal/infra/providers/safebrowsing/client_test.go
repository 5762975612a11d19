package safebrowsing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

func TestClient_Unconfigured(t *testing.T) {
	res := New("", "", nil).Check(context.Background(), "https://example.com", domain.CheckContext{})

	assert.Equal(t, domain.ProviderThreatList, res.Provider)
	assert.Equal(t, domain.StatusSkipped, res.Status)
	assert.Equal(t, domain.VerdictSafe, res.Verdict)
	assert.Equal(t, 10, res.Score)
}

func TestClient_Match(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body struct {
			ThreatInfo struct {
				ThreatEntries []struct {
					URL string `json:"url"`
				} `json:"threatEntries"`
			} `json:"threatInfo"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.ThreatInfo.ThreatEntries, 1)
		assert.Equal(t, "http://malware.example", body.ThreatInfo.ThreatEntries[0].URL)

		w.Write([]byte(`{"matches":[{"threatType":"MALWARE"},{"threatType":"SOCIAL_ENGINEERING"}]}`))
	}))
	defer srv.Close()

	res := New(srv.URL, "test-key", srv.Client()).Check(context.Background(), "http://malware.example", domain.CheckContext{})

	assert.Equal(t, domain.StatusOK, res.Status)
	assert.Equal(t, domain.VerdictMalicious, res.Verdict)
	assert.Equal(t, 85, res.Score)

	d, ok := res.Details.(domain.ThreatListDetails)
	require.True(t, ok)
	assert.True(t, d.Matched)
	assert.Equal(t, 2, d.Matches)
	assert.Equal(t, []string{"MALWARE", "SOCIAL_ENGINEERING"}, d.ThreatTypes)
}

func TestClient_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	res := New(srv.URL, "test-key", srv.Client()).Check(context.Background(), "https://example.com", domain.CheckContext{})

	assert.Equal(t, domain.StatusOK, res.Status)
	assert.Equal(t, domain.VerdictSafe, res.Verdict)
	assert.Equal(t, 10, res.Score)
}

func TestClient_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	res := New(srv.URL, "test-key", srv.Client()).Check(context.Background(), "https://example.com", domain.CheckContext{})

	assert.Equal(t, domain.StatusError, res.Status)
	assert.Equal(t, domain.VerdictSafe, res.Verdict)
	assert.Equal(t, 10, res.Score)
}
