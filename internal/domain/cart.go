package domain

import (
	"fmt"
	"time"
)

// MaxItemQuantity caps how many copies of one product a cart line may hold.
// Adding beyond the cap clamps silently rather than failing.
const MaxItemQuantity = 10

// CartTTL is the sliding expiry of a cart; every write refreshes it.
const CartTTL = 7 * 24 * time.Hour

// Cart items are kept as an ordered slice, not a map, so checkout walks
// lines in insertion order.
type Cart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Find returns the index of the line holding productID, or -1.
func (c *Cart) Find(productID int64) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add appends a new line or sums into an existing one, clamping the
// resulting quantity to MaxItemQuantity.
func (c *Cart) Add(productID int64, quantity int) {
	if i := c.Find(productID); i >= 0 {
		c.Items[i].Quantity = min(c.Items[i].Quantity+quantity, MaxItemQuantity)
		return
	}
	c.Items = append(c.Items, CartItem{
		ProductID: productID,
		Quantity:  min(quantity, MaxItemQuantity),
	})
}

// SetQuantity overwrites a line's quantity; zero removes the line.
// Setting a quantity for an absent product appends a new line.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity == 0 {
		c.Remove(productID)
		return
	}
	if i := c.Find(productID); i >= 0 {
		c.Items[i].Quantity = quantity
		return
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
}

// Remove deletes a line if present; absent lines are a no-op.
func (c *Cart) Remove(productID int64) {
	if i := c.Find(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Identity is the per-request requester identity supplied by the HTTP
// layer. Guests are identified by client IP only.
type Identity struct {
	UserID   *int64
	ClientIP string
}

func (id Identity) IsAuthenticated() bool {
	return id.UserID != nil
}

// CartKey derives the cache key owning this identity's cart.
func (id Identity) CartKey() string {
	if id.UserID != nil {
		return fmt.Sprintf("cart:user:%d", *id.UserID)
	}
	return fmt.Sprintf("cart:guest:%s", id.ClientIP)
}
