package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtv "github.com/ayesh20/e-learn-backend/backend/shared/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issue(t *testing.T, m *jwtv.Manager, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := m.Issue(claims, time.Hour)
	require.NoError(t, err)
	return tok
}

func call(t *testing.T, app *fiber.App, path, auth string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestJWTAuth(t *testing.T) {
	m, err := jwtv.NewManager("secret")
	require.NoError(t, err)
	deleted := "deadbeef"
	check := func(ctx context.Context, userID, role string) error {
		if userID == deleted {
			return errors.New("student not found")
		}
		return nil
	}

	app := fiber.New()
	app.Get("/me", JWTAuth(m, check), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c) + "|" + Role(c))
	})

	tests := []struct {
		name           string
		auth           string
		expectedStatus int
	}{
		{"no header", "", 401},
		{"not bearer", "Token abc", 401},
		{"garbage token", "Bearer abc", 401},
		{"subject gone", "Bearer " + issue(t, m, jwt.MapClaims{"id": deleted, "role": "student"}), 401},
		{"valid", "Bearer " + issue(t, m, jwt.MapClaims{"id": "u1", "role": "student"}), 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, app, "/me", tt.auth)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	m, err := jwtv.NewManager("secret")
	require.NoError(t, err)
	app := fiber.New()
	app.Use(OptionalAuth(m))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("role=" + Role(c)) })

	assert.Equal(t, 200, call(t, app, "/", "").StatusCode)
	assert.Equal(t, 403, call(t, app, "/", "Bearer nope").StatusCode)
	assert.Equal(t, 200, call(t, app, "/", "Bearer "+issue(t, m, jwt.MapClaims{"userId": "u2"})).StatusCode)
}
