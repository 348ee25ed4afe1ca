package event

import (
	"github.com/shopspring/decimal"
)

const (
	TopicProductCreated = "product.created"
	TopicStockLow       = "stock.low"
)

type ProductCreatedEvent struct {
	StoreID   string          `json:"store_id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

// StockLowEvent reports a product whose stock fell below the threshold.
// Stock 0 means the product is out of stock.
type StockLowEvent struct {
	StoreID   string `json:"store_id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}
