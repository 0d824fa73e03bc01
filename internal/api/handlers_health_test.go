package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleReadyz(t *testing.T) {
	cacheSrv := miniredis.RunT(t)
	queueSrv := miniredis.RunT(t)

	cache := redis.NewClient(&redis.Options{Addr: cacheSrv.Addr()})
	queue := redis.NewClient(&redis.Options{Addr: queueSrv.Addr()})
	t.Cleanup(func() {
		_ = cache.Close()
		_ = queue.Close()
	})

	t.Run("all dependencies reachable", func(t *testing.T) {
		w := httptest.NewRecorder()
		HandleReadyz(nil, cache, queue).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
	})

	t.Run("queue redis down", func(t *testing.T) {
		queueSrv.Close()

		w := httptest.NewRecorder()
		HandleReadyz(nil, cache, queue).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"Asynq Redis not ready"}`, w.Body.String())
	})
}
