package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-api/internal/middleware"
	"catalog-api/internal/repository/repositorytest"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testAPI is the full route table wired to in-memory repositories
type testAPI struct {
	t      *testing.T
	server *httptest.Server
	store  *repositorytest.Store
	tokens service.TokenService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	store := repositorytest.NewStore()

	tokens := service.NewTokenService(service.TokenConfig{
		Key:    "transport-test-key-0123456789abcdef",
		Issuer: "catalog-api",
		Expiry: 10 * time.Minute,
	})
	authService := service.NewAuthService(service.DefaultCredentials, tokens, logger)
	categoryService := service.NewCategoryService(store.Categories(), logger)
	productService := service.NewProductService(store.Products(), store.Categories(), logger)

	r := chi.NewRouter()
	r.Use(middleware.ErrorHandlingMiddleware(logger, false))
	authMiddleware := middleware.AuthMiddleware(tokens, logger)

	NewAuthHandler(authService, logger).RegisterRoutes(r)
	NewCategoryHandler(categoryService, logger).RegisterRoutes(r, authMiddleware)
	NewProductHandler(productService, logger).RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testAPI{t: t, server: server, store: store, tokens: tokens}
}

// do sends body (a string is sent verbatim, anything else is JSON encoded)
func (a *testAPI) do(method, path string, body interface{}, token string) *http.Response {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		encoded, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testAPI) token() string {
	a.t.Helper()
	signed, err := a.tokens.Issue("admin")
	require.NoError(a.t, err)
	return signed
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body middleware.ErrorResponse
	decode(t, resp, &body)
	return body.Message
}

// createCategory posts a category and returns its id
func (a *testAPI) createCategory(name string) int {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/categorias", map[string]interface{}{
		"name":        name,
		"description": name + " description",
	}, a.token())
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID int `json:"id"`
	}
	decode(a.t, resp, &created)
	return created.ID
}

func productPayload(name string, categoryID int) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"description":  name + " description",
		"price":        19.9,
		"image":        name + ".png",
		"stock":        3,
		"purchaseDate": "2024-01-15T10:30:00Z",
		"categoryId":   categoryID,
	}
}

// createProduct posts a product and returns its id
func (a *testAPI) createProduct(name string, categoryID int) int {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/produtos", productPayload(name, categoryID), "")
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID int `json:"id"`
	}
	decode(a.t, resp, &created)
	return created.ID
}
