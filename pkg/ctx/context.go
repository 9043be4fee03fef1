// Package ctx provides a gin.Context-inspired request context for storefront
// handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context:
//
//	func ShowProduct(c *ctx.Context) {
//	    id, ok := c.ParamID("id")
//	    if !ok {
//	        return
//	    }
//	    c.JSON(http.StatusOK, product)
//	}
//
//	router.Get("/products/{id}", "products.show", ctx.Wrap(ShowProduct))
package ctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/sadekstore/storefront/pkg/bind"
	"github.com/sadekstore/storefront/pkg/logger"
	"github.com/sadekstore/storefront/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair and provides a helper API.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int // written status code (0 = not written yet)
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/products/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamID parses a numeric path parameter. On failure it answers 404 (an id
// that is not a number cannot exist) and returns false.
func (c *Context) ParamID(key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil {
		c.NotFound(fmt.Sprintf("Invalid id %q", c.Param(key)))
		return 0, false
	}
	return id, true
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// ClientIP returns the real client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Logger returns the request-scoped logger (tagged with request_id).
func (c *Context) Logger() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stores a value in the per-request key-value store.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

// Get retrieves a value from the per-request store.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// GetString returns a string value from the store, or "" if absent/wrong type.
func (c *Context) GetString(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation.
// On failure it sends the error response itself and returns false:
// 400 for malformed JSON or failed validation, 413 for an oversized body.
//
//	var input CategoryInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		if errors.Is(err, bind.ErrBodyTooLarge) {
			c.Error(http.StatusRequestEntityTooLarge, err.Error())
			return false
		}
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Success sends a 200 {"success":true, ...fields}.
func (c *Context) Success(fields response.Fields) {
	c.status = http.StatusOK
	response.Success(c.W, fields)
}

// Error sends {"success":false,"error":message} with the given status.
func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.status = http.StatusBadRequest
	response.ValidationError(c.W, bind.First(errs), errs)
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized(message ...string) {
	c.Error(http.StatusUnauthorized, first(message, "Unauthorized"))
}

// Forbidden sends a 403.
func (c *Context) Forbidden(message ...string) {
	c.Error(http.StatusForbidden, first(message, "Forbidden"))
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	c.Error(http.StatusNotFound, first(message, "Not found"))
}

// WrittenStatus returns the HTTP status code that was written to the response,
// or 0 if no response has been written yet.
func (c *Context) WrittenStatus() int { return c.status }

func first(message []string, def string) string {
	if len(message) > 0 {
		return message[0]
	}
	return def
}
