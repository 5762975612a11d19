package doh

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "A", r.URL.Query().Get("type"))
		switch r.URL.Query().Get("name") {
		case "wikipedia.org":
			w.Write([]byte(`{"Status":0,"Answer":[{"name":"wikipedia.org","type":1,"data":"198.35.26.96"},{"name":"wikipedia.org","type":1,"data":"198.35.26.97"}]}`))
		case "no-such-host.example":
			w.Write([]byte(`{"Status":3}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	r := New(srv.URL, srv.Client())

	info := r.Resolve(context.Background(), "wikipedia.org")
	assert.True(t, info.Exists)
	assert.Equal(t, []string{"198.35.26.96", "198.35.26.97"}, info.Records)

	info = r.Resolve(context.Background(), "no-such-host.example")
	assert.False(t, info.Exists)
	assert.Empty(t, info.Records)

	// server errors map to exists=false, never an error
	info = r.Resolve(context.Background(), "boom.example")
	assert.False(t, info.Exists)
}

func TestResolver_UnreachableEndpoint(t *testing.T) {
	r := New("http://127.0.0.1:1", nil)
	info := r.Resolve(context.Background(), "wikipedia.org")
	assert.False(t, info.Exists)
}
