// Package controllers holds the HTTP handlers. Each one decodes the
// request, calls a service and shapes the JSON response; failures go
// through fail so every error body is {"success":false,"error":"..."}.
package controllers

import (
	"errors"
	"net/http"

	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/ctx"
)

// fail answers err with the status its kind maps to. notFound is the
// message used for ErrNotFound.
func fail(c *ctx.Context, err error, notFound string) {
	msg := err.Error()
	var se *services.Error
	if errors.As(err, &se) {
		msg = se.Message
	}

	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrUnsupportedMedia):
		c.Error(http.StatusBadRequest, msg)
	case errors.Is(err, services.ErrUnauthorized):
		c.Unauthorized(msg)
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden(msg)
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(notFound)
	case errors.Is(err, services.ErrTooLarge):
		c.Error(http.StatusRequestEntityTooLarge, msg)
	default:
		c.Logger().Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Server error")
	}
}
