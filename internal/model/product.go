package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           string           `json:"id"`
	StoreID      string           `json:"store_id"`
	Name         string           `json:"name"`
	Category     string           `json:"category"`
	Stock        int              `json:"stock"`
	Price        decimal.Decimal  `json:"price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	AmountBought int              `json:"amount_bought"`
	AmountSold   int              `json:"amount_sold"`
	Supplier     *string          `json:"supplier"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// EffectiveSellingPrice returns the selling price, falling back to the cost price.
func (p Product) EffectiveSellingPrice() decimal.Decimal {
	if p.SellingPrice != nil {
		return *p.SellingPrice
	}
	return p.Price
}

// IsLowStock reports whether the product is in stock but below threshold.
func (p Product) IsLowStock(threshold int) bool {
	return p.Stock > 0 && p.Stock < threshold
}

// IsOutOfStock reports whether no unit is left.
func (p Product) IsOutOfStock() bool {
	return p.Stock == 0
}

// ProductChanges is a partial update merged into a product during a stock
// adjustment. Counter deltas are added to the counters read in the same
// transaction; non-nil pointers replace the stored value.
type ProductChanges struct {
	AmountBoughtDelta int
	AmountSoldDelta   int
	Price             *decimal.Decimal
	SellingPrice      *decimal.Decimal
	Supplier          *string
}

// Apply returns p with the changes merged in. Stock is left untouched.
func (c ProductChanges) Apply(p Product) Product {
	p.AmountBought += c.AmountBoughtDelta
	p.AmountSold += c.AmountSoldDelta
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.SellingPrice != nil {
		sp := *c.SellingPrice
		p.SellingPrice = &sp
	}
	if c.Supplier != nil {
		s := *c.Supplier
		p.Supplier = &s
	}
	return p
}
