package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	catalogdom "github.com/ovenworks/bakeplan/internal/catalog/domain"
	orderdom "github.com/ovenworks/bakeplan/internal/order/domain"
	"github.com/ovenworks/bakeplan/internal/planning/domain"
)

// Service computes production plans: which products to bake in a
// delivery window and whether the pantry covers them.
type Service struct {
	log     *slog.Logger
	orders  OrderSource
	recipes RecipeResolver
	stock   StockSource
}

func NewService(log *slog.Logger, orders OrderSource, recipes RecipeResolver, stock StockSource) *Service {
	return &Service{log: log, orders: orders, recipes: recipes, stock: stock}
}

// ComputePlan builds the plan for the window. Recipe lookups fan out per
// distinct product and stock lookups per distinct ingredient; a failed
// lookup never aborts the plan, it becomes a warning (recipes) or a
// stock-unknown shortage (stock). Only the order listing itself is
// fatal. Results fold in first-appearance order, so identical inputs
// produce an identical plan regardless of goroutine completion order.
func (s *Service) ComputePlan(ctx context.Context, window orderdom.DateWindow) (domain.ProductionPlan, error) {
	orders, skipped, err := s.orders.ListPending(ctx, window)
	if err != nil {
		return domain.ProductionPlan{}, fmt.Errorf("list pending orders: %w", err)
	}

	var lines []orderdom.Line
	for _, o := range orders {
		lines = append(lines, o.Items...)
	}
	products := domain.SummarizeProducts(lines)

	plan := domain.ProductionPlan{
		Products:      products,
		Ingredients:   []domain.IngredientRequirement{},
		SkippedOrders: skipped,
	}
	if skipped > 0 {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf("%d order(s) skipped: undecodable items", skipped))
		s.log.Warn("orders skipped during planning", "count", skipped)
	}
	if len(products) == 0 {
		return plan, nil
	}

	recipes, recipeErrs := s.fetchRecipes(ctx, products)
	if err := ctx.Err(); err != nil {
		return domain.ProductionPlan{}, err
	}

	reqs := domain.NewRequirementSet()
	for i, p := range products {
		if recipeErrs[i] != nil {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf("recipe lookup failed for %s", p.ProductName))
			s.log.Warn("recipe lookup failed", "product_id", p.ProductID, "err", recipeErrs[i])
			continue
		}
		for _, line := range recipes[i] {
			reqs.Add(line, p.TotalQuantity)
		}
	}

	stock := s.fetchStock(ctx, reqs.IngredientIDs())
	if err := ctx.Err(); err != nil {
		return domain.ProductionPlan{}, err
	}

	plan.Ingredients = reqs.Finalize(stock)
	for _, req := range plan.Ingredients {
		if req.StockUnknown {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf("stock unknown for %s", req.IngredientName))
		}
	}
	return plan, nil
}

// fetchRecipes resolves every product's recipe concurrently. Each
// goroutine writes only its own slot, so no lock is needed and the
// caller folds results in product order.
func (s *Service) fetchRecipes(ctx context.Context, products []domain.ProductSummary) ([][]catalogdom.RecipeLine, []error) {
	recipes := make([][]catalogdom.RecipeLine, len(products))
	errs := make([]error, len(products))

	var wg sync.WaitGroup
	for i, p := range products {
		wg.Add(1)
		go func(i int, productID string) {
			defer wg.Done()
			recipes[i], errs[i] = s.recipes.RecipeForProduct(ctx, productID)
		}(i, p.ProductID)
	}
	wg.Wait()
	return recipes, errs
}

// fetchStock reads on-hand levels for the distinct ingredients
// concurrently. A failed read leaves the entry unknown rather than
// assuming zero stock.
func (s *Service) fetchStock(ctx context.Context, ingredientIDs []string) map[string]domain.StockLevel {
	levels := make([]domain.StockLevel, len(ingredientIDs))
	failures := make([]error, len(ingredientIDs))

	var wg sync.WaitGroup
	for i, id := range ingredientIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			onHand, err := s.stock.OnHand(ctx, id)
			if err != nil {
				failures[i] = err
				return
			}
			levels[i] = domain.StockLevel{OnHand: onHand, Known: true}
		}(i, id)
	}
	wg.Wait()

	out := make(map[string]domain.StockLevel, len(ingredientIDs))
	for i, id := range ingredientIDs {
		if failures[i] != nil {
			s.log.Warn("stock lookup failed", "ingredient_id", id, "err", failures[i])
			out[id] = domain.StockLevel{OnHand: decimal.Zero, Known: false}
			continue
		}
		out[id] = levels[i]
	}
	return out
}
