package admin

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	// CookieName carries the signed session token.
	CookieName = "admin_session"
	// ContextKey is where the verified token is stored in fiber locals.
	ContextKey = "admin"
)

// RequireSession rejects requests without a live admin session with 401.
func (s *SessionStore) RequireSession() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    s.SigningKey(),
		SigningMethod: "HS256",
		ContextKey:    ContextKey,
		TokenLookup:   "cookie:" + CookieName,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			tok, _ := c.Locals(ContextKey).(*jwt.Token)
			jti, err := jtiFromToken(tok)
			if err != nil || !s.Valid(jti) {
				return unauthorized(c)
			}
			return c.Next()
		},
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
}
