package web

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v3"
)

const (
	sessionCookieName  = "auth-session"
	sessionCookieValue = "authenticated"
	sessionMaxAge      = 7 * 24 * time.Hour
)

// Auth gates the dashboard behind a single shared credential and a simple
// session cookie, matching the platform's internal-tool threat model.
type Auth struct {
	username string
	password string
	secure   bool
}

// NewAuth creates the cookie-session authenticator.
func NewAuth(username, password string, secure bool) *Auth {
	return &Auth{
		username: username,
		password: password,
		secure:   secure,
	}
}

// Middleware rejects requests without a valid session cookie.
func (a *Auth) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Cookies(sessionCookieName) != sessionCookieValue {
			return unauthorized(c, "authentication required")
		}

		return c.Next()
	}
}

// Login validates credentials and establishes the session cookie.
func (a *Auth) Login(c fiber.Ctx) error {
	var req LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(a.username)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(a.password)) == 1

	if !usernameOK || !passwordOK {
		return unauthorized(c, "invalid credentials")
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    sessionCookieValue,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   a.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{"success": true})
}

// Logout clears the session cookie.
func (a *Auth) Logout(c fiber.Ctx) error {
	c.ClearCookie(sessionCookieName)

	return c.JSON(fiber.Map{"success": true})
}
