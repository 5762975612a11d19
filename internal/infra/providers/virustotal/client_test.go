package virustotal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/seif8911/cyberqr/internal/domain/analysis"
)

func newScannerServer(t *testing.T, malicious, suspicious, harmless int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /urls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-apikey"))
		require.NoError(t, r.ParseForm())
		assert.NotEmpty(t, r.PostForm.Get("url"))
		w.Write([]byte(`{"data":{"id":"u-abc123"}}`))
	})
	mux.HandleFunc("GET /analyses/u-abc123", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":{"attributes":{"stats":{"malicious":%d,"suspicious":%d,"harmless":%d}}}}`,
			malicious, suspicious, harmless)
	})
	return httptest.NewServer(mux)
}

func TestClient_Unconfigured(t *testing.T) {
	res := New("", "", nil).Check(context.Background(), "https://example.com", domain.CheckContext{})

	assert.Equal(t, domain.ProviderMultiScanner, res.Provider)
	assert.Equal(t, domain.StatusSkipped, res.Status)
	assert.Equal(t, 10, res.Score)
}

func TestClient_EngineTallies(t *testing.T) {
	tests := []struct {
		name                            string
		malicious, suspicious, harmless int
		wantScore                       int
		wantVerdict                     domain.Verdict
	}{
		{"clean", 0, 0, 70, 0, domain.VerdictSafe},
		{"no engines reported", 0, 0, 0, 0, domain.VerdictSafe},
		{"mostly malicious", 60, 10, 30, 66, domain.VerdictCaution},
		{"unanimous malicious", 70, 0, 0, 100, domain.VerdictMalicious},
		{"weighted suspicious", 0, 50, 50, 30, domain.VerdictSafe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newScannerServer(t, tt.malicious, tt.suspicious, tt.harmless)
			defer srv.Close()

			res := New(srv.URL, "test-key", srv.Client()).Check(context.Background(), "https://example.com", domain.CheckContext{})

			assert.Equal(t, domain.StatusOK, res.Status)
			assert.Equal(t, tt.wantScore, res.Score)
			assert.Equal(t, tt.wantVerdict, res.Verdict)

			d, ok := res.Details.(domain.ScannerDetails)
			require.True(t, ok)
			assert.Equal(t, "u-abc123", d.AnalysisID)
			assert.Equal(t, tt.malicious, d.Malicious)
		})
	}
}

func TestClient_SubmitFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	res := New(srv.URL, "test-key", srv.Client()).Check(context.Background(), "https://example.com", domain.CheckContext{})

	assert.Equal(t, domain.StatusError, res.Status)
	assert.Equal(t, domain.VerdictSafe, res.Verdict)
	assert.Equal(t, 10, res.Score)
}
