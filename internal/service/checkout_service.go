package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Lorendor/webshop-api/internal/cache"
	"github.com/Lorendor/webshop-api/internal/domain"
	"github.com/Lorendor/webshop-api/internal/repository"
)

type CheckoutService struct {
	cart     *CartService
	products repository.ProductRepository
	orders   repository.OrderRepository
	cache    cache.CartCache
	log      *logrus.Entry
}

func NewCheckoutService(
	cart *CartService,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	cartCache cache.CartCache,
	log *logrus.Entry,
) *CheckoutService {
	return &CheckoutService{
		cart:     cart,
		products: products,
		orders:   orders,
		cache:    cartCache,
		log:      log,
	}
}

// Checkout turns the identity's cart into a persisted order.
//
// The whole cart is validated against the active catalog before anything
// is written: one unavailable product aborts the checkout and leaves the
// cart untouched. Unit prices are snapshotted per line, so the order total
// is fixed at this instant regardless of later catalog edits. On success
// the cart key is deleted.
func (s *CheckoutService) Checkout(ctx context.Context, id domain.Identity, customerEmail string, paymentSessionID *string) (*domain.Order, error) {
	cart, err := s.cart.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := s.products.FindActive(ctx, line.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, &ProductUnavailableError{ProductID: line.ProductID}
		}
		if err != nil {
			return nil, err
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
	}

	token, err := generateDownloadToken()
	if err != nil {
		return nil, err
	}

	// Payment confirmation is not wired up yet; once it is, orders
	// should start out pending and flip to completed on the webhook.
	order := &domain.Order{
		ID:               uuid.New(),
		UserID:           id.UserID,
		Status:           domain.OrderStatusCompleted,
		Total:            total,
		CustomerEmail:    customerEmail,
		PaymentSessionID: paymentSessionID,
		DownloadToken:    token,
		Items:            items,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, id.CartKey()); err != nil {
		// The order exists; a lingering cart is an annoyance, not a
		// correctness problem.
		s.log.WithError(err).Warn("cart delete after checkout failed")
	}

	return order, nil
}

// ListOrders returns the user's orders, newest first, items attached.
func (s *CheckoutService) ListOrders(ctx context.Context, userID int64, page, perPage int) ([]*domain.Order, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	return s.orders.ListOrdersByUserID(ctx, userID, page, perPage)
}

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func generateDownloadToken() (string, error) {
	buf := make([]byte, domain.DownloadTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate download token: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
