package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetracker/models"
)

func testApp() *fiber.App {
	app := fiber.New()
	app.Get("/private", JWTMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("role"),
		})
	})
	app.Get("/admin", JWTMiddleware, RequireAdmin, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// useSecret wires a verification secret for the test and restores the
// previous one afterwards.
func useSecret(t *testing.T, secret string) {
	t.Helper()
	prev := jwtSecret
	Setup(secret)
	t.Cleanup(func() { jwtSecret = prev })
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsGarbageToken(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	useSecret(t, "test-secret")
	app := testApp()

	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub":  "user-1",
		"role": models.RoleUser,
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	useSecret(t, "test-secret")
	app := testApp()

	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub":  "user-1",
		"role": models.RoleUser,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// The wired secret must be the one used for verification; tokens signed with
// anything else, including the default fallback, are rejected.
func TestJWTMiddlewareUsesConfiguredSecret(t *testing.T) {
	useSecret(t, "secret-from-config")
	app := testApp()

	claims := jwt.MapClaims{
		"sub":  "user-1",
		"role": models.RoleUser,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}

	good := signToken(t, "secret-from-config", claims)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+good)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	forged := signToken(t, "change-me", claims)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	useSecret(t, "test-secret")
	app := testApp()

	userToken := signToken(t, "test-secret", jwt.MapClaims{
		"sub":  "user-1",
		"role": models.RoleUser,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken := signToken(t, "test-secret", jwt.MapClaims{
		"sub":  "admin-1",
		"role": models.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
