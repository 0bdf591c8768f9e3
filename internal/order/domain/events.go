package domain

import "time"

type OrderCreated struct {
	OrderID      string    `json:"order_id"`
	Customer     string    `json:"customer"`
	DeliveryDate time.Time `json:"delivery_date"`
	Items        []Line    `json:"items"`
}
