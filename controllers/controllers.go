// Package controllers holds the HTTP handlers. Handlers are plain functions
// over the shared database handle; the few background dependencies they need
// (scheduler, request pipeline) are injected once at startup via Setup.
package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pricetracker/config"
	"pricetracker/requests"
)

// Rechecker triggers a product recheck outside the normal cycle.
type Rechecker interface {
	CheckProduct(ctx context.Context, productID string) error
}

var (
	cfg       *config.Config
	logger    *zap.Logger
	rechecker Rechecker
	pipeline  *requests.Pipeline
)

// Setup wires the handlers' shared dependencies. Call once before registering
// routes.
func Setup(c *config.Config, l *zap.Logger, r Rechecker, p *requests.Pipeline) {
	cfg = c
	logger = l
	rechecker = r
	pipeline = p
}

// currentUserID reads the authenticated user id set by the JWT middleware.
func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
