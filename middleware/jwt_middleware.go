package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var jwtSecret []byte

// Setup wires the token verification secret. Call after config load so .env
// values are visible; without it the secret falls back to the raw environment.
func Setup(secret string) {
	jwtSecret = []byte(secret)
}

// secretKey resolves the verification secret lazily, never at package init:
// godotenv only exports .env values once config loading has run.
func secretKey() []byte {
	if len(jwtSecret) != 0 {
		return jwtSecret
	}
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("change-me")
}

// JWTMiddleware resolves the bearer token into an opaque (user_id, role)
// identity and injects it into the request context. Handlers never parse
// tokens themselves.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing bearer token"})
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey(), nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing subject"})
	}
	role, _ := claims["role"].(string)

	c.Locals("user_id", sub)
	c.Locals("role", role)

	return c.Next()
}
