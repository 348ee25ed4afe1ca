package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "Active"
	SupplierStatusInactive SupplierStatus = "Inactive"
)

func (s SupplierStatus) Validate() error {
	switch s {
	case SupplierStatusActive, SupplierStatusInactive:
		return nil
	default:
		return fmt.Errorf("unknown supplier status: %s", s)
	}
}

// DefaultSupplierRating is assigned when a supplier is created without a rating.
var DefaultSupplierRating = decimal.RequireFromString("4.0")

type Supplier struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	Name      string          `json:"name"`
	Contact   string          `json:"contact"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Products  []string        `json:"products"`
	Rating    decimal.Decimal `json:"rating"`
	Status    SupplierStatus  `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
