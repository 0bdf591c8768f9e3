package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	catalogdom "github.com/ovenworks/bakeplan/internal/catalog/domain"
	orderdom "github.com/ovenworks/bakeplan/internal/order/domain"
	"github.com/ovenworks/bakeplan/internal/planning/application"
	"github.com/ovenworks/bakeplan/internal/planning/domain"
)

type fakeOrders struct {
	orders []orderdom.Order
	err    error
}

func (f *fakeOrders) ListPending(context.Context, orderdom.DateWindow) ([]orderdom.Order, int, error) {
	return f.orders, 0, f.err
}

type fakeRecipes struct {
	byProduct map[string][]catalogdom.RecipeLine
}

func (f *fakeRecipes) RecipeForProduct(_ context.Context, productID string) ([]catalogdom.RecipeLine, error) {
	return f.byProduct[productID], nil
}

type fakeStock struct {
	onHand map[string]string
}

func (f *fakeStock) OnHand(_ context.Context, id string) (decimal.Decimal, error) {
	raw, ok := f.onHand[id]
	if !ok {
		return decimal.Zero, nil
	}
	return decimal.RequireFromString(raw), nil
}

type memPlanStore struct {
	plans map[string]domain.ProductionPlan
	puts  int
}

func newMemPlanStore() *memPlanStore {
	return &memPlanStore{plans: make(map[string]domain.ProductionPlan)}
}

func (s *memPlanStore) Get(_ context.Context, w orderdom.DateWindow) (domain.ProductionPlan, bool) {
	p, ok := s.plans[w.From.String()+w.To.String()]
	return p, ok
}

func (s *memPlanStore) Put(_ context.Context, w orderdom.DateWindow, p domain.ProductionPlan) {
	s.puts++
	s.plans[w.From.String()+w.To.String()] = p
}

func newTestHandler(orders *fakeOrders) (*Handler, *memPlanStore) {
	log := slog.New(slog.DiscardHandler)
	recipes := &fakeRecipes{byProduct: map[string][]catalogdom.RecipeLine{
		"p-croissant": {{
			IngredientID:   "i-butter",
			IngredientName: "Butter",
			Unit:           "kg",
			QtyPerUnit:     decimal.RequireFromString("0.05"),
		}},
	}}
	stock := &fakeStock{onHand: map[string]string{"i-butter": "0.5"}}
	svc := application.NewService(log, orders, recipes, stock)
	store := newMemPlanStore()
	h := NewHandler(log, svc, store)
	h.now = func() time.Time { return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC) }
	return h, store
}

func orderFor(productID, name string, qty int64) orderdom.Order {
	return orderdom.Order{
		ID:           "o-1",
		DeliveryDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Items:        []orderdom.Line{{ProductID: productID, ProductName: name, Quantity: qty}},
		Status:       orderdom.StatusPending,
	}
}

func TestGetPlan(t *testing.T) {
	h, store := newTestHandler(&fakeOrders{orders: []orderdom.Order{
		orderFor("p-croissant", "Croissant", 15),
	}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/?from=2026-08-28&to=2026-08-30", nil)
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var plan domain.ProductionPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(plan.Products) != 1 || plan.Products[0].TotalQuantity != 15 {
		t.Errorf("products = %+v", plan.Products)
	}
	if len(plan.Ingredients) != 1 || plan.Ingredients[0].Status != domain.StatusShortage {
		t.Errorf("ingredients = %+v", plan.Ingredients)
	}
	if store.puts != 1 {
		t.Errorf("plan not cached, puts = %d", store.puts)
	}
}

func TestGetPlanServedFromCache(t *testing.T) {
	orders := &fakeOrders{orders: []orderdom.Order{orderFor("p-croissant", "Croissant", 15)}}
	h, store := newTestHandler(orders)

	first := httptest.NewRecorder()
	h.Routes().ServeHTTP(first, httptest.NewRequest("GET", "/?from=2026-08-28&to=2026-08-30", nil))
	if first.Code != 200 {
		t.Fatalf("first status = %d", first.Code)
	}

	// Break the source; the cached plan must still serve.
	orders.err = context.DeadlineExceeded
	second := httptest.NewRecorder()
	h.Routes().ServeHTTP(second, httptest.NewRequest("GET", "/?from=2026-08-28&to=2026-08-30", nil))
	if second.Code != 200 {
		t.Fatalf("second status = %d", second.Code)
	}
	if store.puts != 1 {
		t.Errorf("puts = %d, want 1 (second hit served from cache)", store.puts)
	}
}

func TestGetPlanBadWindow(t *testing.T) {
	h, _ := newTestHandler(&fakeOrders{})
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/?from=yesterday&to=2026-08-30", nil))
	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetPlanSourceDown(t *testing.T) {
	h, _ := newTestHandler(&fakeOrders{err: context.DeadlineExceeded})
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/?days=1", nil))
	if rec.Code != 502 {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "could not compute production plan") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestGetShortfall(t *testing.T) {
	h, _ := newTestHandler(&fakeOrders{orders: []orderdom.Order{
		orderFor("p-croissant", "Croissant", 15),
	}})
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest("GET", "/shortfall?from=2026-08-28&to=2026-08-30", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"0.25", "kg", "Butter"} {
		if !strings.Contains(body, want) {
			t.Errorf("shortfall %q missing %q", body, want)
		}
	}
}
