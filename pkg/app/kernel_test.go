package app_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/pkg/app"
	"github.com/sadekstore/storefront/pkg/auth"
	"github.com/sadekstore/storefront/pkg/database"
	"github.com/sadekstore/storefront/pkg/storage"
)

const adminPassword = "changeme"

type client struct {
	t     *testing.T
	srv   *httptest.Server
	token string
}

func newClient(t *testing.T) *client {
	t.Helper()
	dir := t.TempDir()

	store, err := database.NewFileStore[models.Document](filepath.Join(dir, "data.json"))
	require.NoError(t, err)

	disks := storage.NewManager("local")
	disks.Register("local", storage.NewLocalDisk(filepath.Join(dir, "public"), "/"))

	a := app.New(app.Options{
		Env:            "test",
		Store:          store,
		AdminPassword:  adminPassword,
		Signer:         auth.NewSigner("test-secret"),
		Disks:          disks,
		PoolSize:       1,
		UploadMaxBytes: 1 << 20,
	})
	require.NoError(t, a.Init(t.Context()))

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		a.Close()
	})
	return &client{t: t, srv: srv}
}

func (c *client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.srv.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.send(req)
}

func (c *client) send(req *http.Request) (int, map[string]any) {
	c.t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (c *client) login() {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/login", map[string]string{"password": adminPassword})
	require.Equal(c.t, http.StatusOK, status, body)
	c.token = body["token"].(string)
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	status, body := c.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "test", body["environment"])
}

func TestUnknownEndpoint(t *testing.T) {
	c := newClient(t)
	status, body := c.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Endpoint not found", body["error"])
}

func TestAuthGate(t *testing.T) {
	c := newClient(t)

	status, body := c.do(http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Access token required", body["error"])

	c.token = "garbage"
	status, body = c.do(http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Invalid or expired token", body["error"])
}

func TestLogin_Errors(t *testing.T) {
	c := newClient(t)

	status, body := c.do(http.MethodPost, "/api/login", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Password is required", body["error"])

	status, body = c.do(http.MethodPost, "/api/login", map[string]string{"password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid password", body["error"])
}

func TestLogin_ReturnsPublicUser(t *testing.T) {
	c := newClient(t)
	status, body := c.do(http.MethodPost, "/api/login", map[string]string{"password": adminPassword})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	user := body["user"].(map[string]any)
	assert.NotEmpty(t, user["name"])
	assert.NotContains(t, user, "password")
}

func TestCategories(t *testing.T) {
	c := newClient(t)
	c.login()

	status, body := c.do(http.MethodPost, "/api/categories", map[string]string{"name": "Phones", "description": "Mobile phones"})
	require.Equal(t, http.StatusOK, status, body)
	id := body["category"].(map[string]any)["id"].(float64)

	status, body = c.do(http.MethodPut, "/api/categories", map[string]any{"id": id, "name": "Smartphones"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Smartphones", body["category"].(map[string]any)["name"])

	status, body = c.do(http.MethodPut, "/api/categories/12345", map[string]any{"name": "X"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Category not found", body["error"])

	status, _ = c.do(http.MethodDelete, "/api/categories/1", nil)
	assert.Equal(t, http.StatusOK, status)

	resp, err := http.Get(c.srv.URL + "/api/categories")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list []models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 4)
}

func TestOrderLifecycle(t *testing.T) {
	c := newClient(t)

	status, body := c.do(http.MethodPost, "/api/orders", map[string]any{
		"items":        []map[string]any{{"name": "A", "price": 100, "quantity": 2}},
		"customerName": "X",
		"phone":        "0000",
	})
	require.Equal(t, http.StatusOK, status, body)
	orderID := int64(body["orderId"].(float64))

	c.login()
	path := "/api/orders/" + jsonNumber(orderID)

	status, body = c.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 200.0, body["total"])
	assert.Equal(t, "pending", body["status"])

	status, body = c.do(http.MethodPut, path+"/status", map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, status, body)

	status, _ = c.do(http.MethodPut, path+"/status", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, status)

	_, stats := c.do(http.MethodGet, "/api/dashboard/stats", nil)
	assert.Equal(t, 1.0, stats["orders"])
	assert.Equal(t, 200.0, stats["revenue"])

	status, _ = c.do(http.MethodPut, path+"/status", map[string]string{"status": "cancelled"})
	require.Equal(t, http.StatusOK, status)

	_, analytics := c.do(http.MethodGet, "/api/analytics", nil)
	assert.Equal(t, 0.0, analytics["ordersCount"])
	assert.Equal(t, 0.0, analytics["revenue"])

	status, body = c.do(http.MethodPut, "/api/orders/99/status", map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Order not found", body["error"])
}

func TestProductsAndUpload(t *testing.T) {
	c := newClient(t)
	c.login()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "pic.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, c.srv.URL+"/api/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)
	status, body := c.send(req)
	require.Equal(t, http.StatusOK, status, body)
	imageURL := body["imageUrl"].(string)

	resp, err := http.Get(c.srv.URL + imageURL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, dir := range []string{"/uploads/", "/uploads/uploads/", "/uploads/uploads"} {
		resp, err = http.Get(c.srv.URL + dir)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, dir)
	}

	status, body = c.do(http.MethodPost, "/api/products", map[string]any{
		"name":   "Phone",
		"price":  99.5,
		"images": []string{imageURL},
	})
	require.Equal(t, http.StatusOK, status, body)
	product := body["product"].(map[string]any)
	assert.Equal(t, "DA", product["currency"])
	assert.Equal(t, true, product["status"])
	path := "/api/products/" + jsonNumber(int64(product["id"].(float64)))

	status, body = c.do(http.MethodPut, path, map[string]any{"price": 120})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, []any{imageURL}, body["product"].(map[string]any)["images"])

	status, body = c.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Product deleted successfully", body["message"])

	status, body = c.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Product not found", body["error"])
}

func TestUpload_MissingFile(t *testing.T) {
	c := newClient(t)
	c.login()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, c.srv.URL+"/api/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)
	status, body := c.send(req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No image file provided", body["error"])
}

func TestSettingsAndVisitor(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(http.MethodPost, "/api/analytics/visitor", nil)
	require.Equal(t, http.StatusOK, status)

	c.login()
	status, body := c.do(http.MethodPut, "/api/settings", map[string]any{
		"storeName": "Renamed",
		"contact":   map[string]string{"email": "a@b.c"},
	})
	require.Equal(t, http.StatusOK, status, body)
	settings := body["settings"].(map[string]any)
	assert.Equal(t, "Renamed", settings["storeName"])
	assert.NotEmpty(t, settings["contact"].(map[string]any)["phone"])

	_, analytics := c.do(http.MethodGet, "/api/analytics", nil)
	assert.Equal(t, 1.0, analytics["visitors"])

	status, body = c.do(http.MethodPost, "/api/reset-data", nil)
	require.Equal(t, http.StatusOK, status)
	summary := body["resetSummary"].(map[string]any)
	assert.Equal(t, true, summary["settingsReset"])

	_, settingsAfter := c.do(http.MethodGet, "/api/settings", nil)
	assert.NotEqual(t, "Renamed", settingsAfter["storeName"])
}

func TestMetricsEndpoint(t *testing.T) {
	c := newClient(t)
	c.do(http.MethodGet, "/api/health", nil)

	resp, err := http.Get(c.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestScheduler_ReconcileEnabledByConfig(t *testing.T) {
	t.Setenv("RECONCILE_INTERVAL", "1h")
	store, err := database.NewFileStore[models.Document](filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	disks := storage.NewManager("local")
	disks.Register("local", storage.NewLocalDisk(t.TempDir(), "/"))

	a := app.New(app.Options{Store: store, Signer: auth.NewSigner("x"), Disks: disks})
	defer a.Close()
	assert.Equal(t, []string{"analytics.reconcile [1h0m0s]"}, a.Scheduler().List())

	t.Setenv("RECONCILE_INTERVAL", "0")
	assert.Empty(t, a.Scheduler().List())
}
