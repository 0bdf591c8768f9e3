package domain

import "github.com/shopspring/decimal"

// RecipeLine is one ingredient requirement for producing a single unit of
// a product. QtyPerUnit is stored to 4 decimal places in the database.
type RecipeLine struct {
	IngredientID   string          `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	QtyPerUnit     decimal.Decimal `json:"qty_per_unit"`
}
