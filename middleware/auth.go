// middleware/auth.go
package middleware

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// BearerAuthMiddleware verifies the session JWT on every user-scoped route.
// The token subject is the FID; the audience must match the domain the
// request arrived on (Origin → Host → APP_DOMAIN fallback chain), so a token
// minted for one deployment cannot be replayed against another.
func BearerAuthMiddleware() fiber.Handler {
	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("❌ AUTH_JWT_SECRET is not set — service cannot verify session tokens")
	}

	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization token missing",
			})
		}

		raw := strings.TrimPrefix(authHeader, "Bearer ")
		if raw == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authorization header must use the Bearer scheme",
			})
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token claims",
			})
		}

		domain := requestDomain(c)
		aud, _ := claims.GetAudience()
		matched := false
		for _, a := range aud {
			if a == domain {
				matched = true
				break
			}
		}
		if !matched {
			log.Printf("🚫 [AUTH] token audience %v does not match domain %q for %s", aud, domain, c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token not valid for this domain",
			})
		}

		sub, err := claims.GetSubject()
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token subject missing",
			})
		}
		fid, err := strconv.ParseInt(sub, 10, 64)
		if err != nil || fid <= 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token subject is not a valid FID",
			})
		}

		c.Locals("fid", fid)
		return c.Next()
	}
}

// requestDomain derives the domain the token must be bound to:
// Origin header → Host header → APP_DOMAIN environment variable.
func requestDomain(c *fiber.Ctx) string {
	if origin := c.Get("Origin"); origin != "" {
		if u, err := url.Parse(origin); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	if host := c.Hostname(); host != "" {
		return host
	}
	return os.Getenv("APP_DOMAIN")
}
