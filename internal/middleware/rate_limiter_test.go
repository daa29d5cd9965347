package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendFrom(t *testing.T, e *echo.Echo, mw echo.MiddlewareFunc, headers map[string]string) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "192.168.1.100:12345"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec.Code
}

func TestRateLimiter_BurstThenLimited(t *testing.T) {
	e := echo.New()
	mw := NewRateLimiter(1, 4).Middleware()

	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, sendFrom(t, e, mw, nil), "request %d within burst", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(t, e, mw, nil))
}

func TestRateLimiter_SeparateBucketsPerIP(t *testing.T) {
	e := echo.New()
	mw := NewRateLimiter(1, 1).Middleware()

	assert.Equal(t, http.StatusOK, sendFrom(t, e, mw, map[string]string{"X-Forwarded-For": "10.0.0.1"}))
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(t, e, mw, map[string]string{"X-Forwarded-For": "10.0.0.1, 172.16.0.1"}))
	assert.Equal(t, http.StatusOK, sendFrom(t, e, mw, map[string]string{"X-Real-IP": "10.0.0.2"}))
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	rl := NewRateLimiter(10, 1)
	now := time.Now()

	assert.True(t, rl.allow("1.1.1.1", now))
	assert.False(t, rl.allow("1.1.1.1", now))
	assert.True(t, rl.allow("1.1.1.1", now.Add(150*time.Millisecond)))
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(5, 10)
	now := time.Now()

	rl.allow("old", now.Add(-10*time.Minute))
	rl.allow("fresh", now)

	assert.Equal(t, 1, rl.evict(now))
	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "fresh")
}

func TestRateLimiter_ConcurrentRequests(t *testing.T) {
	rl := NewRateLimiter(1, 50)
	now := time.Now()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.allow("same", now) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}
