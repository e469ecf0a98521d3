package rest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failPing(context.Context) error { return errors.New("down") }

func TestHealth(t *testing.T) {
	s := newTestServer(t, Deps{Users: &fakeUsers{}, Swings: &fakeSwings{}})

	w := doJSON(t, s, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestHealthComponents(t *testing.T) {
	tests := []struct {
		name string
		path string
		deps Deps
		want int
	}{
		{"db ok", "/health/db", Deps{}, http.StatusOK},
		{"db down", "/health/db", Deps{DBPing: failPing}, http.StatusServiceUnavailable},
		{"redis ok", "/health/redis", Deps{}, http.StatusOK},
		{"redis down", "/health/redis", Deps{RedisPing: failPing}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.deps.Users = &fakeUsers{}
			tt.deps.Swings = &fakeSwings{}
			s := newTestServer(t, tt.deps)

			w := doJSON(t, s, http.MethodGet, tt.path, "", "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHealthFull_NeverFailsRequest(t *testing.T) {
	s := newTestServer(t, Deps{Users: &fakeUsers{}, Swings: &fakeSwings{}, DBPing: failPing})

	w := doJSON(t, s, http.MethodGet, "/health/full", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "degraded", body["status"])
	components := body["components"].(map[string]any)
	assert.Equal(t, "unhealthy", components["database"])
	assert.Equal(t, "ok", components["redis"])
}
