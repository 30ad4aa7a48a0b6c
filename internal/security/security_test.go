package security

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
}

func TestTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue(42, true)
	require.NoError(t, err)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenRejections(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	token, err := manager.Issue(7, false)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other-secret", time.Hour).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := manager.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = limiter.Allow("1.2.3.4")
	assert.True(t, ok)

	ok, retryAfter := limiter.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retryAfter)

	ok, _ = limiter.Allow("5.6.7.8")
	assert.True(t, ok, "keys are limited independently")

	now = now.Add(time.Minute)
	ok, _ = limiter.Allow("1.2.3.4")
	assert.True(t, ok, "window reset")

	now = now.Add(2 * time.Minute)
	limiter.cleanup()
	assert.Empty(t, limiter.buckets)
}

func TestRequestHelpers(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		value      string
		remoteAddr string
		wantIP     string
	}{
		{name: "forwarded chain", header: "X-Forwarded-For", value: "10.0.0.1, 10.0.0.2", remoteAddr: "1.1.1.1:80", wantIP: "10.0.0.1"},
		{name: "real ip", header: "X-Real-IP", value: "10.0.0.3", remoteAddr: "1.1.1.1:80", wantIP: "10.0.0.3"},
		{name: "remote addr", remoteAddr: "192.168.1.5:5555", wantIP: "192.168.1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.header != "" {
				r.Header.Set(tt.header, tt.value)
			}
			assert.Equal(t, tt.wantIP, GetClientIP(r))
		})
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer abc.def")
	assert.Equal(t, "abc.def", BearerToken(r))

	r.Header.Set("Authorization", "Basic xyz")
	assert.Equal(t, "", BearerToken(r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, IsSecureRequest(r))
}
