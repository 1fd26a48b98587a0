package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Lorendor/webshop-api/internal/cache"
	"github.com/Lorendor/webshop-api/internal/domain"
	"github.com/Lorendor/webshop-api/internal/repository"
)

// CartView is a cart resolved against the live catalog: each line carries
// the current product and derived totals. Lines whose product has gone
// inactive are hidden from the view but stay in the stored cart.
type CartView struct {
	Items []CartViewItem
	Total decimal.Decimal
}

type CartViewItem struct {
	Product   *domain.Product
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

type CartService struct {
	cache    cache.CartCache
	products repository.ProductRepository
	log      *logrus.Entry
}

func NewCartService(cartCache cache.CartCache, products repository.ProductRepository, log *logrus.Entry) *CartService {
	return &CartService{
		cache:    cartCache,
		products: products,
		log:      log,
	}
}

// GetCart reads the identity's cart, defaulting to empty when the key is
// absent or expired.
func (s *CartService) GetCart(ctx context.Context, id domain.Identity) (*domain.Cart, error) {
	cart, err := s.cache.Get(ctx, id.CartKey())
	if errors.Is(err, cache.ErrCacheMiss) {
		return &domain.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCartView resolves the cart against the active catalog.
func (s *CartService) GetCartView(ctx context.Context, id domain.Identity) (*CartView, error) {
	cart, err := s.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &CartView{Total: decimal.Zero}
	for _, item := range cart.Items {
		product, err := s.products.FindActive(ctx, item.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, CartViewItem{
			Product:   product,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Total:     lineTotal,
		})
		view.Total = view.Total.Add(lineTotal)
	}

	return view, nil
}

// AddItem puts quantity copies of a product into the cart. The product
// must resolve to an active catalog entry before anything is written.
// Quantities for a product already in the cart are summed and clamped.
func (s *CartService) AddItem(ctx context.Context, id domain.Identity, productID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 || quantity > domain.MaxItemQuantity {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.products.FindActive(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, &ProductUnavailableError{ProductID: productID}
		}
		return nil, err
	}

	cart, err := s.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}

	cart.Add(productID, quantity)
	if err := s.save(ctx, id, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity overwrites a line's quantity; zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, id domain.Identity, productID int64, quantity int) (*domain.Cart, error) {
	if quantity < 0 || quantity > domain.MaxItemQuantity {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}

	cart.SetQuantity(productID, quantity)
	if err := s.save(ctx, id, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops a line; removing an absent product is not an error.
func (s *CartService) RemoveItem(ctx context.Context, id domain.Identity, productID int64) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}

	cart.Remove(productID)
	if err := s.save(ctx, id, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart deletes the cart key outright; a later read sees an empty cart.
func (s *CartService) ClearCart(ctx context.Context, id domain.Identity) error {
	if err := s.cache.Delete(ctx, id.CartKey()); err != nil {
		s.log.WithError(err).Warn("cart delete failed")
		return err
	}
	return nil
}

func (s *CartService) save(ctx context.Context, id domain.Identity, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	return s.cache.Set(ctx, id.CartKey(), cart)
}
