package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/resume-extractor/config"
	"github.com/feichai0017/resume-extractor/pkg/logger"
)

type countingLimiter struct {
	limit int
	hits  map[string]int
	err   error
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.hits[key]++
	return l.hits[key] <= l.limit, nil
}

func newRouter(limiter Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Sessions(config.SessionConfig{Name: "test_session", Secret: "secret"}))
	r.POST("/upload", RateLimit(limiter, "/upload", logger.NewTestLogger()), func(c *gin.Context) {
		c.String(http.StatusOK, "processed")
	})
	r.GET("/upload", func(c *gin.Context) {
		c.JSON(http.StatusOK, Flashes(c))
	})
	return r
}

func TestRateLimitRedirectsWithFlash(t *testing.T) {
	r := newRouter(&countingLimiter{limit: 1, hits: map[string]int{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/upload", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	for _, ck := range w.Result().Cookies() {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `["`+MsgTooManyUploads+`"]`, w.Body.String())
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := newRouter(&countingLimiter{err: errors.New("redis down")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWindowKeyBuckets(t *testing.T) {
	l := NewRedisLimiter(nil, 10, time.Minute)
	base := time.Date(2024, 1, 1, 10, 0, 5, 0, time.UTC)

	l.now = func() time.Time { return base }
	first := l.windowKey("1.2.3.4")
	l.now = func() time.Time { return base.Add(30 * time.Second) }
	assert.Equal(t, first, l.windowKey("1.2.3.4"))
	l.now = func() time.Time { return base.Add(time.Minute) }
	assert.NotEqual(t, first, l.windowKey("1.2.3.4"))

	l.now = func() time.Time { return base }
	assert.NotEqual(t, first, l.windowKey("5.6.7.8"))
}

func TestRequestLoggerSetsID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewTestLogger()
	r := gin.New()
	r.Use(RequestLogger(log))
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = logger.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
	assert.True(t, log.HasMessage("INFO", "Request handled"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", seen)
}
