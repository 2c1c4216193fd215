package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/denizozen/glucolink-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func authTestApp(cfg *config.Config) (*fiber.App, *AuthContext) {
	captured := &AuthContext{}
	app := fiber.New()
	app.Post("/sync", CallerAuth(cfg), ResolveIdentity(), func(c *fiber.Ctx) error {
		if auth := AuthFromContext(c); auth != nil {
			*captured = *auth
		}
		return c.SendStatus(fiber.StatusOK)
	})
	return app, captured
}

func signToken(t *testing.T, secret string, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestCallerAuth_ServiceToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", ServiceToken: "svc-token"}
	app, captured := authTestApp(cfg)

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("X-Service-Token", "svc-token")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !captured.ServiceRole {
		t.Error("expected service-role auth context")
	}
}

func TestCallerAuth_ValidJWT(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	app, captured := authTestApp(cfg)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", userID.String()))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if captured.ServiceRole {
		t.Error("JWT caller must not get the service role")
	}
	if captured.UserID != userID {
		t.Errorf("expected user id %s, got %s", userID, captured.UserID)
	}
}

func TestCallerAuth_MissingToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", ServiceToken: "svc-token"}
	app, _ := authTestApp(cfg)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/sync", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCallerAuth_WrongServiceTokenFallsThroughToJWT(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret", ServiceToken: "svc-token"}
	app, _ := authTestApp(cfg)

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("X-Service-Token", "guessed")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCallerAuth_BadSubjectClaim(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	app, _ := authTestApp(cfg)

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", "not-a-uuid"))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
