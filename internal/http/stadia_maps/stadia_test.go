package stadiamaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient("secret")
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	c.BaseURL = u
	return c
}

func TestPlaceName(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, reverseEndpoint, r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "34.9671", r.URL.Query().Get("point.lat"))
		assert.Equal(t, "135.7727", r.URL.Query().Get("point.lon"))
		assert.Equal(t, "1", r.URL.Query().Get("size"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","properties":{"name":"Fushimi Inari Taisha","label":"Fushimi Inari Taisha, Kyoto, Japan"}}
		]}`))
	})

	name, err := c.PlaceName(context.Background(), 34.9671, 135.7727)
	require.NoError(t, err)
	assert.Equal(t, "Fushimi Inari Taisha", name)
}

func TestPlaceNameFallsBackToLabel(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[{"properties":{"name":"  ","label":"Kyoto, Japan"}}]}`))
	})

	name, err := c.PlaceName(context.Background(), 35, 135)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto, Japan", name)
}

func TestPlaceNameErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"empty", http.StatusOK, `{"features":[]}`},
		{"server error", http.StatusInternalServerError, `boom`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.PlaceName(context.Background(), 0, 0)
			assert.Error(t, err)
		})
	}
}
