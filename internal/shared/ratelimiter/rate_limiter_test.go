package ratelimiter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLimiter_Allow(t *testing.T) {
	t.Parallel()

	l := NewKeyedLimiter(1, 2)
	now := time.Now()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"), "burst exhausted")
	assert.True(t, l.Allow("2.2.2.2"), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.1.1.1"), "refilled after one second")
}

func TestKeyedLimiter_Prune(t *testing.T) {
	t.Parallel()

	l := NewKeyedLimiter(1, 1)
	now := time.Now()
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(idleTTL + time.Second)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Prune())
	assert.Equal(t, 1, l.Len())
}

func TestKeyedLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	l := NewKeyedLimiter(0.001, 1)
	r := gin.New()
	r.Use(l.Middleware())
	r.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)

	w := send("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "TooManyRequests", body["code"])
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}
