package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rl := NewRateLimiter(db, "otp", 2, time.Hour, nil)
	ctx := context.Background()

	mock.ExpectIncr("otp:a@example.com").SetVal(1)
	mock.ExpectExpire("otp:a@example.com", time.Hour).SetVal(true)
	ok, count, err := rl.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), count)

	mock.ExpectIncr("otp:a@example.com").SetVal(3)
	ok, _, err = rl.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_MiddlewareRejectsOverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rl := NewRateLimiter(db, "auth", 1, time.Minute, nil)
	app := fiber.New()
	app.Post("/login", rl.MiddlewareByKey(func(*fiber.Ctx) string { return "k" }), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	mock.ExpectIncr("auth:k").SetVal(1)
	mock.ExpectExpire("auth:k", time.Minute).SetVal(true)
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

	mock.ExpectIncr("auth:k").SetVal(2)
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimiter_MiddlewareFailsOpen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rl := NewRateLimiter(db, "auth", 1, time.Minute, nil)
	app := fiber.New()
	app.Post("/login", rl.MiddlewareByKey(func(*fiber.Ctx) string { return "k" }), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	mock.ExpectIncr("auth:k").SetErr(errors.New("connection refused"))
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIPRateLimiter_Burst(t *testing.T) {
	l := NewIPRateLimiter(1, 2, nil)
	defer l.Stop()
	app := fiber.New()
	app.Use(l.Handler())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	var codes []int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}
