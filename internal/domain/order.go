package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// DownloadTokenLength is the length of the random bearer token issued at
// checkout for download access.
const DownloadTokenLength = 64

type Order struct {
	ID               uuid.UUID
	UserID           *int64
	Status           OrderStatus
	Total            decimal.Decimal
	CustomerEmail    string
	PaymentSessionID *string
	DownloadToken    string
	Items            []OrderItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// OrderItem snapshots a cart line at checkout time. UnitPrice is copied
// from the product so later catalog price edits never touch the order.
type OrderItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// LineTotal is UnitPrice × Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
