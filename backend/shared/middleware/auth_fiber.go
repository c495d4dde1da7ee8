package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	jwtv "github.com/ayesh20/e-learn-backend/backend/shared/jwt"
)

const (
	LocalClaims = "claims"
	LocalUserID = "user_id"
	LocalEmail  = "user_email"
	LocalRole   = "user_role"
)

// TokenVerifier is satisfied by *jwt.Manager.
type TokenVerifier interface {
	VerifyToken(token string) (jwt.MapClaims, error)
}

// SubjectCheck runs after a token verifies; a non-nil error rejects the request with 401.
type SubjectCheck func(ctx context.Context, userID, role string) error

// JWTAuth requires a valid Bearer token and stores its claims in Locals.
func JWTAuth(verifier TokenVerifier, checks ...SubjectCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "no token provided, authorization denied"})
		}
		token, ok := bearer(auth)
		if !ok {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token format"})
		}
		claims, err := verifier.VerifyToken(token)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "token is not valid"})
		}
		setLocals(c, claims)

		uid, _ := c.Locals(LocalUserID).(string)
		role, _ := c.Locals(LocalRole).(string)
		for _, check := range checks {
			if err := check(c.UserContext(), uid, role); err != nil {
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			}
		}
		return c.Next()
	}
}

// OptionalAuth decodes a Bearer token when one is sent. Requests without a
// token pass through anonymously; a bad token is rejected with 403.
func OptionalAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return c.Next()
		}
		token, _ := bearer(auth)
		claims, err := verifier.VerifyToken(token)
		if err != nil {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "invalid user"})
		}
		setLocals(c, claims)
		return c.Next()
	}
}

func bearer(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return header, false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func setLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	c.Locals(LocalClaims, claims)
	uid, ok := jwtv.GetStringClaim(claims, "id")
	if !ok {
		uid, _ = jwtv.GetStringClaim(claims, "userId")
	}
	c.Locals(LocalUserID, uid)
	email, _ := jwtv.GetStringClaim(claims, "email")
	c.Locals(LocalEmail, email)
	role, ok := jwtv.GetStringClaim(claims, "role")
	if !ok {
		role = "student"
	}
	c.Locals(LocalRole, role)
}

// UserID returns the authenticated user's id, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalUserID).(string)
	return v
}

// Role returns the authenticated user's role, or "".
func Role(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalRole).(string)
	return v
}
