package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/shoplite/shoplite-api/internal/application"
	"github.com/shoplite/shoplite-api/internal/domain/entity"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
	"github.com/shoplite/shoplite-api/pkg/validation"
)

type stubCartRepo struct {
	mu    sync.Mutex
	carts map[string]map[string]int
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: map[string]map[string]int{}}
}

func (s *stubCartRepo) Get(_ context.Context, cartID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int{}
	for k, v := range s.carts[cartID] {
		out[k] = v
	}
	return out, nil
}

func (s *stubCartRepo) Add(_ context.Context, cartID, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.carts[cartID] == nil {
		s.carts[cartID] = map[string]int{}
	}
	s.carts[cartID][productID] += qty
	return nil
}

func (s *stubCartRepo) Set(_ context.Context, cartID, productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qty <= 0 {
		delete(s.carts[cartID], productID)
		return nil
	}
	if s.carts[cartID] == nil {
		s.carts[cartID] = map[string]int{}
	}
	s.carts[cartID][productID] = qty
	return nil
}

func (s *stubCartRepo) Remove(_ context.Context, cartID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts[cartID], productID)
	return nil
}

func (s *stubCartRepo) Clear(_ context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, cartID)
	return nil
}

type stubProductRepo struct {
	products map[string]entity.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (s *stubProductRepo) GetActive(_ context.Context, id string) (*entity.Product, error) {
	p, ok := s.products[id]
	if !ok || p.Status != entity.ProductActive {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (s *stubProductRepo) GetActiveByIDs(_ context.Context, ids []string) (map[string]entity.Product, error) {
	out := map[string]entity.Product{}
	for _, id := range ids {
		if p, ok := s.products[id]; ok && p.Status == entity.ProductActive {
			out[id] = p
		}
	}
	return out, nil
}

func (s *stubProductRepo) List(context.Context, repo.ProductFilter) ([]entity.Product, int, error) {
	return nil, 0, nil
}

func (s *stubProductRepo) Categories(context.Context) ([]entity.Category, error) {
	return nil, nil
}

func (s *stubProductRepo) EnsureCategory(context.Context, string) (*entity.Category, error) {
	return nil, errors.New("not supported")
}

func (s *stubProductRepo) CreateWithLog(context.Context, *entity.Product, *entity.ActivityLog) error {
	return errors.New("not supported")
}

func (s *stubProductRepo) UpdateWithLog(context.Context, *entity.Product, *entity.ActivityLog) error {
	return errors.New("not supported")
}

func (s *stubProductRepo) ArchiveWithLog(context.Context, string, *entity.ActivityLog) (*entity.Product, error) {
	return nil, errors.New("not supported")
}

func (s *stubProductRepo) SetImageWithLog(context.Context, string, string, *entity.ActivityLog) (*entity.Product, error) {
	return nil, errors.New("not supported")
}

func cartTestRouter(t *testing.T) (*gin.Engine, *stubCartRepo, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	carts := newStubCartRepo()
	products := &stubProductRepo{products: map[string]entity.Product{
		"p1": {ID: "p1", SKU: "SKU1", Name: "House Blend", PriceCents: 1000, StockQty: 10, Status: entity.ProductActive},
	}}
	logger := logrus.New()
	logger.SetOutput(discard{})

	svc := app.NewCartService(carts, products, logger, 5)
	h := NewCartHandler(svc, logger, "", false, time.Hour)

	r := gin.New()
	r.GET("/api/cart", h.Get)
	r.POST("/api/cart/items/:productID", h.AddItem)
	r.PUT("/api/cart/items/:productID", h.SetItem)
	r.DELETE("/api/cart/items/:productID", h.RemoveItem)

	return r, carts, uuid.NewString()
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func cartDo(r *gin.Engine, cartID, method, path, body string) *httptest.ResponseRecorder {
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "cart_id", Value: cartID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetItemZeroQtyRemovesLine(t *testing.T) {
	r, carts, cartID := cartTestRouter(t)

	w := cartDo(r, cartID, http.MethodPost, "/api/cart/items/p1", `{"qty":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, map[string]int{"p1": 2}, carts.carts[cartID])

	w = cartDo(r, cartID, http.MethodPut, "/api/cart/items/p1", `{"qty":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, carts.carts[cartID])
	assert.Contains(t, w.Body.String(), `"total_cents":0`)
}

func TestSetItemNegativeQtyRemovesLine(t *testing.T) {
	r, carts, cartID := cartTestRouter(t)

	cartDo(r, cartID, http.MethodPost, "/api/cart/items/p1", `{"qty":3}`)
	w := cartDo(r, cartID, http.MethodPut, "/api/cart/items/p1", `{"qty":-1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, carts.carts[cartID])
}

func TestSetItemOverwritesQty(t *testing.T) {
	r, carts, cartID := cartTestRouter(t)

	cartDo(r, cartID, http.MethodPost, "/api/cart/items/p1", `{"qty":2}`)
	w := cartDo(r, cartID, http.MethodPut, "/api/cart/items/p1", `{"qty":5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]int{"p1": 5}, carts.carts[cartID])
}

func TestSetItemMissingQtyRejected(t *testing.T) {
	r, carts, cartID := cartTestRouter(t)

	cartDo(r, cartID, http.MethodPost, "/api/cart/items/p1", `{"qty":2}`)
	w := cartDo(r, cartID, http.MethodPut, "/api/cart/items/p1", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]int{"p1": 2}, carts.carts[cartID])
}

func TestAddItemZeroQtyRejected(t *testing.T) {
	r, carts, cartID := cartTestRouter(t)

	w := cartDo(r, cartID, http.MethodPost, "/api/cart/items/p1", `{"qty":0}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, carts.carts[cartID])
}
