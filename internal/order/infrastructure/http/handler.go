package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ovenworks/bakeplan/internal/order/application"
	"github.com/ovenworks/bakeplan/internal/order/domain"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("order-http"),
	}
}

type createOrderReq struct {
	Customer     string        `json:"customer"`
	DeliveryDate string        `json:"delivery_date"`
	Items        []domain.Line `json:"items"`
}

type orderResp struct {
	ID           string             `json:"id"`
	Customer     string             `json:"customer"`
	DeliveryDate string             `json:"delivery_date"`
	Items        []domain.Line      `json:"items"`
	Status       domain.OrderStatus `json:"status"`
}

// Routes is mounted under /orders.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.createOrder)
	r.Get("/{id}", h.getOrder)
	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	deliveryDate, err := time.Parse("2006-01-02", req.DeliveryDate)
	if err != nil {
		http.Error(w, "delivery_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	o, err := h.service.CreateOrder(ctx, req.Customer, deliveryDate, req.Items, r.Header.Get("traceparent"))
	switch {
	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrBadQuantity),
		errors.Is(err, domain.ErrNoProduct):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.log.Error("create order failed", "err", err)
		http.Error(w, "could not create order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toResp(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	o, err := h.service.GetOrder(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("get order failed", "err", err)
		http.Error(w, "could not load order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toResp(o))
}

func toResp(o domain.Order) orderResp {
	return orderResp{
		ID:           o.ID,
		Customer:     o.Customer,
		DeliveryDate: o.DeliveryDate.Format("2006-01-02"),
		Items:        o.Items,
		Status:       o.Status,
	}
}
