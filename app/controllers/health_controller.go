package controllers

import (
	"net/http"
	"time"

	"github.com/sadekstore/storefront/pkg/ctx"
)

// Health handles GET /api/health.
func Health(env string) ctx.HandlerFunc {
	return func(c *ctx.Context) {
		c.JSON(http.StatusOK, map[string]any{
			"status":      "OK",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"message":     "Server is running correctly",
			"environment": env,
		})
	}
}
