package config

type Inventory struct {
	// LowStockThreshold is the exclusive upper bound of the low-stock band.
	LowStockThreshold int `env:"INVENTORY_LOW_STOCK_THRESHOLD" envDefault:"20"`
	// HighDemandSold marks products as high demand in analytics.
	HighDemandSold int `env:"INVENTORY_HIGH_DEMAND_SOLD" envDefault:"50"`
	// SweepSchedule is a cron expression; empty disables the low-stock sweep.
	SweepSchedule string `env:"INVENTORY_SWEEP_SCHEDULE" envDefault:"0 8 * * *"`
}
