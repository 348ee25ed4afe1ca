package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID           string          `json:"id"`
	StoreID      string          `json:"store_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Customer     string          `json:"customer"`
	QuantitySold int             `json:"quantity_sold"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	CreatedAt    time.Time       `json:"created_at"`
}
