package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Purchase struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"store_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Supplier    *string         `json:"supplier"`
	CreatedAt   time.Time       `json:"created_at"`
}
