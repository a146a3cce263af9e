package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/princeprakhar/eyewear-backend/internal/config"
	"github.com/princeprakhar/eyewear-backend/internal/database/databasetest"
	"github.com/princeprakhar/eyewear-backend/internal/models"
	"github.com/princeprakhar/eyewear-backend/internal/utils"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		DefaultLocale:    "en",
		SupportedLocales: []string{"en", "fr"},
		RateLimitRPS:     10000,
	}
	db := databasetest.New(t)
	router := gin.New()
	SetupRoutes(router, db, nil, cfg)

	return &testServer{t: t, db: db, router: router, cfg: cfg}
}

func (s *testServer) token(userID uint, role string) string {
	s.t.Helper()
	tok, err := utils.GenerateAccessToken(userID, fmt.Sprintf("user%d@example.com", userID), role, s.cfg.JWTSecret, time.Hour)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

type reviewResult struct {
	Review  models.Review `json:"review"`
	Product struct {
		AverageRating float64 `json:"average_rating"`
		ReviewCount   int     `json:"review_count"`
	} `json:"product_rating"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReviewFlowUpdatesProductRating(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(1, utils.RoleAdmin)
	alice := s.token(2, utils.RoleCustomer)
	bob := s.token(3, utils.RoleCustomer)

	code, env := s.do(http.MethodPost, "/api/v1/admin/products", admin, models.CreateProductRequest{
		Name: "Aviator", Price: 150, SKU: "AV-1", Stock: 10,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	product := decode[models.Product](t, env.Data)

	code, _ = s.do(http.MethodPost, "/api/v1/admin/products", alice, models.CreateProductRequest{Name: "x", Price: 1, SKU: "x"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodPost, "/api/v1/reviews", alice, map[string]interface{}{"product_id": product.ID, "rating": 5})
	require.Equal(t, http.StatusCreated, code, env.Error)
	code, env = s.do(http.MethodPost, "/api/v1/reviews", bob, map[string]interface{}{"product_id": product.ID, "rating": 2})
	require.Equal(t, http.StatusCreated, code, env.Error)

	result := decode[reviewResult](t, env.Data)
	assert.Equal(t, 3.5, result.Product.AverageRating)
	assert.Equal(t, 2, result.Product.ReviewCount)

	code, env = s.do(http.MethodPost, "/api/v1/reviews", bob, map[string]interface{}{"product_id": product.ID, "rating": 7})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/v1/reviews", "", map[string]interface{}{"product_id": product.ID, "rating": 4})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPut, fmt.Sprintf("/api/v1/reviews/%d", result.Review.ID), alice, map[string]interface{}{"rating": 1})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[models.Product](t, env.Data)
	assert.Equal(t, 3.5, got.AverageRating)
	assert.Equal(t, 2, got.ReviewCount)

	code, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/reviews/%d", result.Review.ID), admin, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	got = decode[models.Product](t, env.Data)
	assert.Equal(t, 5.0, got.AverageRating)
	assert.Equal(t, 1, got.ReviewCount)

	code, _ = s.do(http.MethodGet, "/api/v1/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, env = s.do(http.MethodGet, "/api/v1/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "product 999 not found", env.Error)
}

func TestLocalizedPageByQueryAndHeader(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(1, utils.RoleAdmin)

	code, env := s.do(http.MethodPost, "/api/v1/admin/pages", admin, models.CreatePageRequest{Title: "About", Slug: "about", Body: "We make glasses."})
	require.Equal(t, http.StatusCreated, code, env.Error)
	en := decode[models.Page](t, env.Data)

	code, env = s.do(http.MethodPost, "/api/v1/admin/pages", admin, models.CreatePageRequest{
		Title: "A propos", Slug: "about", Body: "Nous faisons des lunettes.", Locale: "fr", LocalizationOf: en.ID,
	})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, env = s.do(http.MethodGet, "/api/v1/pages/about?locale=fr", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "A propos", decode[models.Page](t, env.Data).Title)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/about", nil)
	req.Header.Set("Accept-Language", "fr-CA,fr;q=0.8")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var viaHeader envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &viaHeader))
	assert.Equal(t, "A propos", decode[models.Page](t, viaHeader.Data).Title)

	code, env = s.do(http.MethodGet, "/api/v1/pages/about?locale=ja", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "About", decode[models.Page](t, env.Data).Title)

	code, env = s.do(http.MethodGet, "/api/v1/pages/nope?locale=fr", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "page not found", env.Error)
}

func TestOrderAndWishlistRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(1, utils.RoleAdmin)
	alice := s.token(2, utils.RoleCustomer)

	_, env := s.do(http.MethodPost, "/api/v1/admin/products", admin, models.CreateProductRequest{Name: "Round", Price: 80, SKU: "RD-1", Stock: 2})
	product := decode[models.Product](t, env.Data)

	code, _ := s.do(http.MethodPost, fmt.Sprintf("/api/v1/wishlist/%d", product.ID), alice, nil)
	require.Equal(t, http.StatusOK, code)
	code, env = s.do(http.MethodGet, "/api/v1/wishlist", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.WishlistItem](t, env.Data), 1)

	code, env = s.do(http.MethodPost, "/api/v1/orders", alice, models.CreateOrderRequest{
		ShippingAddress: "2 Frame Road",
		Items:           []models.CreateOrderItemRequest{{ProductID: product.ID, Quantity: 3}},
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodPost, "/api/v1/orders", alice, models.CreateOrderRequest{
		ShippingAddress: "2 Frame Road",
		Items:           []models.CreateOrderItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	order := decode[models.Order](t, env.Data)
	assert.Equal(t, 160.0, order.Total)
	assert.Equal(t, "user2@example.com", order.ContactEmail)

	code, env = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d/status", order.ID), admin, map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d/status", order.ID), admin, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.Equal(t, models.OrderConfirmed, decode[models.Order](t, env.Data).Status)

	code, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", order.ID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodGet, "/api/v1/orders", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"total":1`)
}
