package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sadekstore/storefront/pkg/reqid"
)

func TestMiddleware_GeneratesID(t *testing.T) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, seen, 32)
	assert.Equal(t, seen, rec.Header().Get(reqid.Header))
}

func TestMiddleware_HonoursUpstreamID(t *testing.T) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqid.Header, "edge-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "edge-42", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqid.Header, strings.Repeat("x", 200))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Len(t, seen, 32)
}
