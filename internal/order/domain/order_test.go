package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewOrder(t *testing.T) {
	delivery := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	valid := []Line{
		{ProductID: "p-croissant", ProductName: "Croissant", Quantity: 10},
		{ProductID: "p-baguette", ProductName: "Baguette", Quantity: 4},
	}

	tests := []struct {
		name    string
		items   []Line
		wantErr error
	}{
		{name: "valid order", items: valid},
		{name: "no items", items: nil, wantErr: ErrEmptyOrder},
		{name: "zero quantity", items: []Line{{ProductID: "p", Quantity: 0}}, wantErr: ErrBadQuantity},
		{name: "negative quantity", items: []Line{{ProductID: "p", Quantity: -1}}, wantErr: ErrBadQuantity},
		{name: "missing product id", items: []Line{{Quantity: 2}}, wantErr: ErrNoProduct},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := NewOrder("Cafe Luna", delivery, tt.items)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if o.ID == "" {
				t.Error("order id not assigned")
			}
			if o.Status != StatusPending {
				t.Errorf("status = %s, want pending", o.Status)
			}
			if o.TotalUnits() != 14 {
				t.Errorf("total units = %d, want 14", o.TotalUnits())
			}
		})
	}
}

func TestDateWindowContains(t *testing.T) {
	window := NewDateWindow(
		time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC),
		time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC),
	)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start of first day", time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), true},
		{"end of last day", time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC), true},
		{"day before", time.Date(2026, 8, 27, 23, 59, 59, 0, time.UTC), false},
		{"day after", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), false},
		{"mid window", time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := window.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestWindowForDays(t *testing.T) {
	now := time.Date(2026, 8, 28, 16, 45, 0, 0, time.UTC)
	window := WindowForDays(now, 2)

	if !window.Contains(now) {
		t.Error("window must contain today")
	}
	if !window.Contains(now.AddDate(0, 0, 2)) {
		t.Error("window must contain today+2")
	}
	if window.Contains(now.AddDate(0, 0, 3)) {
		t.Error("window must not contain today+3")
	}
}
