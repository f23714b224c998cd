package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, h *HealthHandler, path string) HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth_NothingConfigured(t *testing.T) {
	out := check(t, NewHealthHandler("playpulse", "test", nil, nil), "/health")
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "disabled", out.DB)
	assert.Equal(t, "disabled", out.Redis)
	assert.Equal(t, "playpulse", out.Service)
}

func TestHealth_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	h := NewHealthHandler("playpulse", "test", nil, rdb)

	out := check(t, h, "/healthz")
	assert.Equal(t, "up", out.Redis)
	assert.Equal(t, "healthy", out.Status)

	mr.Close()
	out = check(t, h, "/healthz")
	assert.Equal(t, "down", out.Redis)
	assert.Equal(t, "degraded", out.Status)
}
