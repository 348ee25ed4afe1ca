package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/model"
	"github.com/tuanvumaihuynh/stockledger/internal/repository"
)

const (
	analyticsMonths  = 6
	projectionGrowth = "0.05"
)

type MonthlySales struct {
	Month   string          `json:"month"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type MonthlyProjection struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type AnalyticsSummary struct {
	TotalProducts   int                 `json:"total_products"`
	TotalStock      int                 `json:"total_stock"`
	LowStockCount   int                 `json:"low_stock_count"`
	OutOfStockCount int                 `json:"out_of_stock_count"`
	InventoryValue  decimal.Decimal     `json:"inventory_value"`
	HighDemand      []model.Product     `json:"high_demand"`
	MonthlySales    []MonthlySales      `json:"monthly_sales"`
	Projection      []MonthlyProjection `json:"projection"`
}

type AnalyticsService interface {
	Summary(ctx context.Context, storeID string) (AnalyticsSummary, error)
}

type analyticsService struct {
	cfg         config.Inventory
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	now         func() time.Time
}

func NewAnalyticsService(
	cfg config.Inventory,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) AnalyticsService {
	return &analyticsService{
		cfg:         cfg,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		now:         time.Now,
	}
}

func (s *analyticsService) Summary(ctx context.Context, storeID string) (AnalyticsSummary, error) {
	products, err := s.productRepo.ListProducts(ctx, storeID)
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("product repository list products: %w", err)
	}

	now := s.now()
	firstMonth := monthStart(now).AddDate(0, -(analyticsMonths - 1), 0)

	sales, err := s.saleRepo.ListSales(ctx, storeID, firstMonth)
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("sale repository list sales: %w", err)
	}

	summary := AnalyticsSummary{
		InventoryValue: decimal.Zero,
		HighDemand:     []model.Product{},
	}

	for _, p := range products {
		summary.TotalProducts++
		summary.TotalStock += p.Stock
		summary.InventoryValue = summary.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))

		switch {
		case p.IsOutOfStock():
			summary.OutOfStockCount++
		case p.IsLowStock(s.cfg.LowStockThreshold):
			summary.LowStockCount++
		}

		if p.AmountSold >= s.cfg.HighDemandSold {
			summary.HighDemand = append(summary.HighDemand, p)
		}
	}

	summary.MonthlySales = monthlySales(sales, firstMonth)
	summary.Projection = projectRevenue(summary.MonthlySales[analyticsMonths-1].Revenue, monthStart(now))

	return summary, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func monthLabel(t time.Time) string {
	return t.Format("2006-01")
}

// monthlySales buckets sales into analyticsMonths months starting at firstMonth.
func monthlySales(sales []model.Sale, firstMonth time.Time) []MonthlySales {
	buckets := make([]MonthlySales, analyticsMonths)
	for i := range buckets {
		buckets[i] = MonthlySales{
			Month:   monthLabel(firstMonth.AddDate(0, i, 0)),
			Revenue: decimal.Zero,
		}
	}

	for _, sale := range sales {
		created := sale.CreatedAt.In(firstMonth.Location())
		idx := (created.Year()-firstMonth.Year())*12 + int(created.Month()) - int(firstMonth.Month())
		if idx < 0 || idx >= analyticsMonths {
			continue
		}
		buckets[idx].Count++
		buckets[idx].Revenue = buckets[idx].Revenue.Add(sale.SalePrice)
	}

	return buckets
}

// projectRevenue grows the current month's revenue by 5% per month, linearly.
func projectRevenue(current decimal.Decimal, currentMonth time.Time) []MonthlyProjection {
	growth := decimal.RequireFromString(projectionGrowth)

	projection := make([]MonthlyProjection, 0, analyticsMonths)
	for i := 1; i <= analyticsMonths; i++ {
		factor := decimal.NewFromInt(1).Add(growth.Mul(decimal.NewFromInt(int64(i))))
		projection = append(projection, MonthlyProjection{
			Month:   monthLabel(currentMonth.AddDate(0, i, 0)),
			Revenue: current.Mul(factor),
		})
	}

	return projection
}
