package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/craft-catalog/internal/admin"
	"github.com/wichananm65/craft-catalog/internal/catalog"
	"github.com/wichananm65/craft-catalog/internal/enquiry"
	"github.com/wichananm65/craft-catalog/internal/product"
	"github.com/wichananm65/craft-catalog/internal/upload"
	"golang.org/x/crypto/bcrypt"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}, make([]byte, 64)...)

func newTestApp(t *testing.T, seed []product.Product) (*fiber.App, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := upload.NewStore(dir)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	auth, err := admin.NewAuthenticator("", string(hash))
	require.NoError(t, err)
	sessions, err := admin.NewSessionStore("test-secret")
	require.NoError(t, err)

	app := New(Deps{
		Products:       product.NewService(product.NewInMemoryRepository(seed), store, nil),
		Enquiries:      enquiry.NewService(enquiry.NewInMemoryRepository(), nil),
		Admin:          admin.NewHandler(auth, sessions, admin.CookieOptions{SameSite: "Lax"}, nil),
		Classifier:     catalog.New(catalog.Config{OrderPhone: "+91 98765 43210"}),
		FrontendOrigin: "http://localhost:3000",
		UploadDir:      dir,
	})
	return app, dir
}

func login(t *testing.T, app *fiber.App) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/admin/login", strings.NewReader(`{"password":"open-sesame"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	for _, c := range res.Cookies() {
		if c.Name == admin.CookieName {
			return &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	t.Fatalf("no session cookie in login response")
	return nil
}

func TestHealthAndHeaders(t *testing.T) {
	app, _ := newTestApp(t, nil)
	res, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "DENY", res.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", res.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", res.Header.Get("Referrer-Policy"))
}

func TestCORS_AllowsFrontendWithCredentials(t *testing.T) {
	app, _ := newTestApp(t, nil)
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", res.Header.Get("Access-Control-Allow-Credentials"))
}

func TestProductsRequireSession(t *testing.T) {
	app, _ := newTestApp(t, nil)
	res, err := app.Test(httptest.NewRequest("GET", "/api/products", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(t, nil)
	res, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestAdminFlow_CreateListServeCatalog(t *testing.T) {
	app, dir := newTestApp(t, nil)
	cookie := login(t, app)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.WriteField("name", "Sheesham Charpai")
	w.WriteField("price", "4500")
	w.WriteField("description", "new arrival, hand woven")
	fw, err := w.CreateFormFile("image", "charpai.png")
	require.NoError(t, err)
	fw.Write(pngBytes)
	w.Close()

	req := httptest.NewRequest("POST", "/api/admin/products", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(cookie)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	list := httptest.NewRequest("GET", "/api/products", nil)
	list.AddCookie(cookie)
	res2, err := app.Test(list)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res2.StatusCode)
	var products []product.Product
	require.NoError(t, json.NewDecoder(res2.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.True(t, strings.HasPrefix(products[0].Image, upload.URLPrefix+"/"))

	// the stored file is served back
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	res3, err := app.Test(httptest.NewRequest("GET", products[0].Image, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res3.StatusCode)
	body, _ := io.ReadAll(res3.Body)
	assert.Equal(t, pngBytes, body)
	assert.Equal(t, filepath.Base(products[0].Image), entries[0].Name())

	res4, err := app.Test(httptest.NewRequest("GET", "/api/catalog?category=wood", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res4.StatusCode)
	var listings []map[string]any
	require.NoError(t, json.NewDecoder(res4.Body).Decode(&listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "wood", listings[0]["categoryId"])
	assert.Equal(t, "New", listings[0]["badge"])
	assert.Contains(t, listings[0]["orderLink"], "https://wa.me/919876543210?text=")
}

func TestEnquiryFlow(t *testing.T) {
	app, _ := newTestApp(t, nil)
	req := httptest.NewRequest("POST", "/api/enquiry", strings.NewReader(`{"name":"Asha","email":"asha@example.com","message":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	res2, err := app.Test(httptest.NewRequest("GET", "/api/admin/enquiries", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res2.StatusCode)

	list := httptest.NewRequest("GET", "/api/admin/enquiries", nil)
	list.AddCookie(login(t, app))
	res3, err := app.Test(list)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res3.StatusCode)
}
