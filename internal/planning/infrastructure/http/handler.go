package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	orderdom "github.com/ovenworks/bakeplan/internal/order/domain"
	"github.com/ovenworks/bakeplan/internal/planning/application"
	"github.com/ovenworks/bakeplan/internal/planning/domain"
)

// PlanStore is the cached-plan tier; satisfied by cache.PlanCache.
type PlanStore interface {
	Get(ctx context.Context, window orderdom.DateWindow) (domain.ProductionPlan, bool)
	Put(ctx context.Context, window orderdom.DateWindow, plan domain.ProductionPlan)
}

const defaultWindowDays = 2

var errBadDays = errors.New("days must be a non-negative integer")

func errBadDate(param string) error {
	return fmt.Errorf("%s must be YYYY-MM-DD", param)
}

type Handler struct {
	log     *slog.Logger
	service *application.Service
	plans   PlanStore
	tracer  trace.Tracer
	now     func() time.Time
}

func NewHandler(log *slog.Logger, service *application.Service, plans PlanStore) *Handler {
	return &Handler{
		log:     log,
		service: service,
		plans:   plans,
		tracer:  otel.Tracer("planning-http"),
		now:     time.Now,
	}
}

// Routes is mounted under /production-plan.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.getPlan)
	r.Get("/shortfall", h.getShortfall)
	return r
}

func (h *Handler) getPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProductionPlan")
	defer span.End()

	window, err := h.parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plan, ok := h.cachedOrComputed(ctx, window, w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(plan)
}

func (h *Handler) getShortfall(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetShortfall")
	defer span.End()

	window, err := h.parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plan, ok := h.cachedOrComputed(ctx, window, w)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(domain.FormatShortfallText(plan.Ingredients)))
}

// cachedOrComputed serves the cached plan for the window when one is
// fresh, otherwise computes and caches. On failure it writes the error
// response itself and returns ok=false.
func (h *Handler) cachedOrComputed(ctx context.Context, window orderdom.DateWindow, w http.ResponseWriter) (domain.ProductionPlan, bool) {
	if plan, hit := h.plans.Get(ctx, window); hit {
		return plan, true
	}
	plan, err := h.service.ComputePlan(ctx, window)
	if err != nil {
		h.log.Error("plan computation failed", "err", err)
		http.Error(w, "could not compute production plan", http.StatusBadGateway)
		return domain.ProductionPlan{}, false
	}
	h.plans.Put(ctx, window, plan)
	return plan, true
}

// parseWindow accepts either from/to (YYYY-MM-DD, inclusive) or days=N
// for today..today+N. No params means the default short horizon.
func (h *Handler) parseWindow(r *http.Request) (orderdom.DateWindow, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from != "" || to != "" {
		fromT, err := time.Parse("2006-01-02", from)
		if err != nil {
			return orderdom.DateWindow{}, errBadDate("from")
		}
		toT, err := time.Parse("2006-01-02", to)
		if err != nil {
			return orderdom.DateWindow{}, errBadDate("to")
		}
		return orderdom.NewDateWindow(fromT, toT), nil
	}
	days := defaultWindowDays
	if d := r.URL.Query().Get("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 0 {
			return orderdom.DateWindow{}, errBadDays
		}
		days = n
	}
	return orderdom.WindowForDays(h.now(), days), nil
}
