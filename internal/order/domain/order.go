package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusFulfilled OrderStatus = "fulfilled"
	StatusCanceled  OrderStatus = "canceled"
)

var (
	ErrEmptyOrder  = errors.New("order has no items")
	ErrBadQuantity = errors.New("item quantity must be positive")
	ErrNoProduct   = errors.New("item has no product id")
	ErrNotFound    = errors.New("order not found")
)

// Line is one requested product on an order. ProductID is the stable
// catalog identifier resolved at intake time; ProductName is carried for
// display only and is never used for matching.
type Line struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}

type Order struct {
	ID           string
	Customer     string
	DeliveryDate time.Time
	Items        []Line
	Status       OrderStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewOrder(customer string, deliveryDate time.Time, items []Line) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}
	for _, item := range items {
		if item.ProductID == "" {
			return Order{}, ErrNoProduct
		}
		if item.Quantity <= 0 {
			return Order{}, ErrBadQuantity
		}
	}
	now := time.Now().UTC()
	return Order{
		ID:           uuid.NewString(),
		Customer:     customer,
		DeliveryDate: deliveryDate.UTC(),
		Items:        items,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// TotalUnits sums the requested quantity across all lines.
func (o Order) TotalUnits() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
