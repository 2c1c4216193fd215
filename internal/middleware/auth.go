package middleware

import (
	"github.com/denizozen/glucolink-backend/internal/config"
	"github.com/denizozen/glucolink-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const authContextKey = "auth_context"

// AuthContext is the caller identity, constructed once at the request
// boundary. Either the trusted service role (scheduled/cron invocations)
// or a user identity whose UserID must match the sync target.
type AuthContext struct {
	ServiceRole bool
	UserID      uuid.UUID
}

// CallerAuth authenticates the caller: the internal service-role token
// header short-circuits JWT validation; everything else must carry a valid
// bearer token.
func CallerAuth(cfg *config.Config) fiber.Handler {
	jwtHandler := jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})

	return func(c *fiber.Ctx) error {
		if cfg.ServiceToken != "" && c.Get("X-Service-Token") == cfg.ServiceToken {
			c.Locals(authContextKey, &AuthContext{ServiceRole: true})
			return c.Next()
		}
		return jwtHandler(c)
	}
}

// ResolveIdentity builds the AuthContext from the verified JWT when the
// service-role branch did not apply.
func ResolveIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(authContextKey).(*AuthContext); ok {
			return c.Next()
		}

		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid claims",
			})
		}
		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid subject claim",
			})
		}

		c.Locals(authContextKey, &AuthContext{UserID: userID})
		return c.Next()
	}
}

// AuthFromContext returns the AuthContext set by the auth middleware chain.
func AuthFromContext(c *fiber.Ctx) *AuthContext {
	if auth, ok := c.Locals(authContextKey).(*AuthContext); ok {
		return auth
	}
	return nil
}
