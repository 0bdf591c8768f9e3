package domain

import (
	"github.com/shopspring/decimal"

	catalogdom "github.com/ovenworks/bakeplan/internal/catalog/domain"
	orderdom "github.com/ovenworks/bakeplan/internal/order/domain"
)

type RequirementStatus string

const (
	StatusOK       RequirementStatus = "ok"
	StatusShortage RequirementStatus = "shortage"
)

// ProductSummary is the total number of units to bake for one product
// across every order in the planning window.
type ProductSummary struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	TotalQuantity int64  `json:"total_quantity"`
}

// IngredientRequirement nets the exploded recipe demand for one
// ingredient against on-hand stock.
//
// Invariant: Missing = max(0, Required - OnHand), and Status is
// StatusShortage iff Missing is positive. When the on-hand lookup failed,
// StockUnknown is set, OnHand is zero and the entry is reported as a
// shortage rather than silently assumed covered.
type IngredientRequirement struct {
	IngredientID   string            `json:"ingredient_id"`
	IngredientName string            `json:"ingredient_name"`
	Unit           string            `json:"unit"`
	Required       decimal.Decimal   `json:"required"`
	OnHand         decimal.Decimal   `json:"on_hand"`
	Missing        decimal.Decimal   `json:"missing"`
	Status         RequirementStatus `json:"status"`
	StockUnknown   bool              `json:"stock_unknown,omitempty"`
}

// ProductionPlan is the full bake plan for a window: units per product
// and ingredient demand vs stock, with per-item failures downgraded to
// warnings. SkippedOrders counts orders dropped because their stored
// item payload could not be decoded.
type ProductionPlan struct {
	Products      []ProductSummary        `json:"products"`
	Ingredients   []IngredientRequirement `json:"ingredients"`
	Warnings      []string                `json:"warnings,omitempty"`
	SkippedOrders int                     `json:"skipped_orders,omitempty"`
}

// SummarizeProducts reduces order lines to one summary per product,
// summing quantities grouped by product id. Lines without a product id
// or with a non-positive quantity are dropped. Output preserves first
// appearance order, which keeps the whole plan deterministic.
func SummarizeProducts(lines []orderdom.Line) []ProductSummary {
	summaries := make([]ProductSummary, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, line := range lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			continue
		}
		if i, ok := index[line.ProductID]; ok {
			summaries[i].TotalQuantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(summaries)
		summaries = append(summaries, ProductSummary{
			ProductID:     line.ProductID,
			ProductName:   line.ProductName,
			TotalQuantity: line.Quantity,
		})
	}
	return summaries
}

// StockLevel is an on-hand figure fed into Finalize. Known is false when
// the stock lookup failed, which is distinct from a zero on-hand row.
type StockLevel struct {
	OnHand decimal.Decimal
	Known  bool
}

// RequirementSet accumulates ingredient demand across recipe explosions.
// It is mutated by a single goroutine only; concurrent recipe lookups
// must be joined before folding their lines in.
type RequirementSet struct {
	order []string
	byID  map[string]*IngredientRequirement
}

func NewRequirementSet() *RequirementSet {
	return &RequirementSet{byID: make(map[string]*IngredientRequirement)}
}

// Add folds one recipe line scaled by the number of product units into
// the running total for its ingredient. First sighting seeds name and
// unit from the recipe line.
func (s *RequirementSet) Add(line catalogdom.RecipeLine, units int64) {
	if line.IngredientID == "" || units <= 0 {
		return
	}
	contribution := line.QtyPerUnit.Mul(decimal.NewFromInt(units))
	req, ok := s.byID[line.IngredientID]
	if !ok {
		s.order = append(s.order, line.IngredientID)
		s.byID[line.IngredientID] = &IngredientRequirement{
			IngredientID:   line.IngredientID,
			IngredientName: line.IngredientName,
			Unit:           line.Unit,
			Required:       contribution,
		}
		return
	}
	req.Required = req.Required.Add(contribution)
}

// IngredientIDs returns the distinct ingredients in first-appearance
// order, for the stock fan-out.
func (s *RequirementSet) IngredientIDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *RequirementSet) Len() int { return len(s.order) }

// Finalize nets accumulated demand against stock and applies the
// shortage invariant. Ingredients missing from the stock map are treated
// as unknown.
func (s *RequirementSet) Finalize(stock map[string]StockLevel) []IngredientRequirement {
	out := make([]IngredientRequirement, 0, len(s.order))
	for _, id := range s.order {
		req := *s.byID[id]
		level, ok := stock[id]
		if !ok || !level.Known {
			req.StockUnknown = true
			req.OnHand = decimal.Zero
		} else {
			req.OnHand = level.OnHand
		}
		req.Missing = req.Required.Sub(req.OnHand)
		if req.Missing.IsNegative() {
			req.Missing = decimal.Zero
		}
		if req.Missing.IsPositive() || req.StockUnknown {
			req.Status = StatusShortage
		} else {
			req.Status = StatusOK
		}
		out = append(out, req)
	}
	return out
}
