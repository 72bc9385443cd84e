package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

const (
	loginAttempts = 5
	loginWindow   = 15 * time.Minute
)

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	Secure   bool
	SameSite string
}

type Handler struct {
	auth     *Authenticator
	sessions *SessionStore
	cookie   CookieOptions
	log      *zap.Logger
}

type loginRequest struct {
	Password string `json:"password"`
}

func NewHandler(auth *Authenticator, sessions *SessionStore, cookie CookieOptions, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{auth: auth, sessions: sessions, cookie: cookie, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/admin/login", loginLimiter(), h.login)
	app.Post("/api/admin/logout", h.logout)
}

// Guard is the middleware protecting admin-only routes.
func (h *Handler) Guard() fiber.Handler {
	return h.sessions.RequireSession()
}

func loginLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               loginAttempts,
		Expiration:        loginWindow,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many login attempts. Try again later."})
		},
	})
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid request body"})
	}

	if err := h.auth.Check(payload.Password); err != nil {
		h.log.Warn("admin login rejected", zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Wrong password"})
	}

	token, exp, err := h.sessions.Issue()
	if err != nil {
		h.log.Error("issue session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to create session"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(SessionTTL / time.Second),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cookie.SameSite,
	})
	h.log.Info("admin logged in", zap.String("ip", c.IP()))
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) logout(c *fiber.Ctx) error {
	h.sessions.RevokeToken(c.Cookies(CookieName))
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cookie.SameSite,
	})
	return c.JSON(fiber.Map{"success": true})
}
