package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/interfaces/http/dto"
	"github.com/societyhub/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("blocks requests exceeding limit per client", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("a"))
		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))
		assert.True(t, limiter.Allow("b"))
	})

	t.Run("window resets", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(1, time.Minute)
		limiter.now = func() time.Time { return now }

		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))
		assert.Equal(t, 0, limiter.Remaining("a"))

		now = now.Add(time.Minute)
		assert.Equal(t, 1, limiter.Remaining("a"))
		assert.True(t, limiter.Allow("a"))
	})

	t.Run("sweep drops idle clients", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(1, time.Minute)
		limiter.now = func() time.Time { return now }
		limiter.Allow("a")

		now = now.Add(3 * time.Minute)
		limiter.sweep()
		assert.Empty(t, limiter.clients)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)
		var wg sync.WaitGroup
		var allowed atomic.Int64
		for range 150 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("c") {
					allowed.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(100), allowed.Load())
	})
}

func TestAuthRateLimit(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)
	r := gin.New()
	r.POST("/login", AuthRateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	for i := range 3 {
		w := send("192.168.1.100:12345")
		assert.Equal(t, http.StatusOK, w.Code, "attempt %d", i+1)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	}

	testutil.AssertErrorResponse(t, send("192.168.1.100:12345"), http.StatusTooManyRequests, dto.ErrCodeRateLimited)
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1").Code)
}
