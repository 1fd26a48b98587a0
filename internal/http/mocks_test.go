package http

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/Lorendor/webshop-api/internal/cache"
	"github.com/Lorendor/webshop-api/internal/domain"
	"github.com/Lorendor/webshop-api/internal/repository"
	"github.com/Lorendor/webshop-api/internal/service"
)

const testJWTSecret = "test-secret"

type mockCartCache struct {
	carts map[string]*domain.Cart
}

func (m *mockCartCache) Get(_ context.Context, key string) (*domain.Cart, error) {
	cart, ok := m.carts[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (m *mockCartCache) Set(_ context.Context, key string, cart *domain.Cart) error {
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	m.carts[key] = &cp
	return nil
}

func (m *mockCartCache) Delete(_ context.Context, key string) error {
	delete(m.carts, key)
	return nil
}

type mockProductCache struct{}

func (mockProductCache) GetProduct(context.Context, int64) (*domain.Product, error) {
	return nil, cache.ErrCacheMiss
}

func (mockProductCache) SetProduct(context.Context, *domain.Product) error { return nil }

type mockProductRepo struct {
	products map[int64]*domain.Product
}

func (m *mockProductRepo) FindActive(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok || !p.IsActive {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepo) List(_ context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	var products []*domain.Product
	for _, p := range m.products {
		if p.IsActive {
			products = append(products, p)
		}
	}
	return &domain.ProductPage{
		Products: products,
		Page:     filter.Page,
		PerPage:  filter.PerPage,
		Total:    int64(len(products)),
	}, nil
}

type mockOrderRepo struct {
	orders map[uuid.UUID]*domain.Order
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) ListOrdersByUserID(_ context.Context, userID int64, _, _ int) ([]*domain.Order, error) {
	var orders []*domain.Order
	for _, o := range m.orders {
		if o.UserID != nil && *o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

type mockFileStore struct {
	files map[string][]byte
}

func (m *mockFileStore) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *mockFileStore) Open(path string) (io.ReadCloser, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// testServer bundles the full router with its in-memory collaborators so
// handler tests can drive the API end to end, middleware included.
type testServer struct {
	router    chi.Router
	cartCache *mockCartCache
	products  *mockProductRepo
	orders    *mockOrderRepo
	files     *mockFileStore
}

func newTestServer(t *testing.T, products ...*domain.Product) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)
	entry := logrus.NewEntry(log)

	productRepo := &mockProductRepo{products: make(map[int64]*domain.Product)}
	for _, p := range products {
		productRepo.products[p.ID] = p
	}
	cartCache := &mockCartCache{carts: make(map[string]*domain.Cart)}
	orderRepo := &mockOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
	files := &mockFileStore{files: make(map[string][]byte)}

	catalogSvc := service.NewCatalogService(productRepo, mockProductCache{}, entry)
	cartSvc := service.NewCartService(cartCache, productRepo, entry)
	checkoutSvc := service.NewCheckoutService(cartSvc, productRepo, orderRepo, cartCache, entry)
	downloadSvc := service.NewDownloadService(orderRepo, productRepo, files, t.TempDir(), entry)

	router := NewRouter(
		NewProductHandler(catalogSvc),
		NewCartHandler(cartSvc),
		NewOrdersHandler(checkoutSvc, downloadSvc),
		testJWTSecret,
		5*time.Second,
	)

	return &testServer{
		router:    router,
		cartCache: cartCache,
		products:  productRepo,
		orders:    orderRepo,
		files:     files,
	}
}

func authHeader(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func testProduct(id int64, name, price string) *domain.Product {
	return &domain.Product{
		ID:        id,
		Name:      name,
		Slug:      name,
		Price:     decimal.RequireFromString(price),
		FilePath:  "products/file.psd",
		FileType:  "PSD",
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}
