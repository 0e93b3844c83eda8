package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

func TestHTTPProbe_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewHTTPProbe(types.ServiceAuth, srv.URL+"/health")
	res := p.Check(context.Background())

	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "auth_service healthy")
	assert.Equal(t, http.StatusOK, res.Details["status"])
}

func TestHTTPProbe_Non2xxIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewHTTPProbe(types.ServiceLLM, srv.URL+"/health")
	res := p.Check(context.Background())

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "status 503")
}

func TestHTTPProbe_TransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	p := NewHTTPProbe(types.ServiceBackend, srv.URL+"/health")
	res := p.Check(context.Background())

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "backend_service unreachable")
}
