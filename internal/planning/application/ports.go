package application

import (
	"context"

	"github.com/shopspring/decimal"

	catalogdom "github.com/ovenworks/bakeplan/internal/catalog/domain"
	orderdom "github.com/ovenworks/bakeplan/internal/order/domain"
)

// OrderSource lists pending orders with a delivery date inside the
// window. skipped counts orders dropped because their stored items could
// not be decoded; only a failure to list at all returns an error.
type OrderSource interface {
	ListPending(ctx context.Context, window orderdom.DateWindow) (orders []orderdom.Order, skipped int, err error)
}

// RecipeResolver returns the recipe lines for one product. An empty
// slice means no recipe is configured and is not an error.
type RecipeResolver interface {
	RecipeForProduct(ctx context.Context, productID string) ([]catalogdom.RecipeLine, error)
}

// StockSource returns the on-hand quantity for one ingredient. An absent
// stock row reads as zero; an error means the figure is unknown.
type StockSource interface {
	OnHand(ctx context.Context, ingredientID string) (decimal.Decimal, error)
}
