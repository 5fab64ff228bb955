package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *GeocodeService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &GeocodeService{
		baseURL:   server.URL,
		userAgent: "mangalore-properties/test",
		client:    server.Client(),
	}
}

func TestResolveLocalityInRegion(t *testing.T) {
	svc := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "Kadri")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"12.8906","lon":"74.8560","display_name":"Kadri, Mangalore, Karnataka"}]`))
	})

	result, err := svc.Resolve(context.Background(), "Kadri")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.InDelta(t, 12.8906, result.Point.Lat, 0.0001)
	assert.InDelta(t, 74.8560, result.Point.Lng, 0.0001)
	assert.True(t, result.InRegion)
}

func TestResolveFlagsOutOfRegion(t *testing.T) {
	svc := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"19.0760","lon":"72.8777","display_name":"Mumbai, Maharashtra"}]`))
	})

	result, err := svc.Resolve(context.Background(), "Andheri")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.InRegion)
}

func TestResolveNoHits(t *testing.T) {
	svc := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	result, err := svc.Resolve(context.Background(), "Nowhereville")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestResolveRequiresLocality(t *testing.T) {
	svc := NewGeocodeService()
	_, err := svc.Resolve(context.Background(), "")
	assert.Error(t, err)
}

func TestResolveServerError(t *testing.T) {
	svc := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := svc.Resolve(context.Background(), "Kadri")
	assert.Error(t, err)
}
