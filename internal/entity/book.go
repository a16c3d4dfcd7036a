package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money fields go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Book is a single inventory record.
type Book struct {
	ID                int64            `json:"id"`
	Title             string           `json:"title"`
	Author            string           `json:"author"`
	ISBN              string           `json:"isbn"`
	CostUSD           decimal.Decimal  `json:"cost_usd"`
	SellingPriceLocal *decimal.Decimal `json:"selling_price_local"`
	StockQuantity     int              `json:"stock_quantity"`
	Category          string           `json:"category"`
	SupplierCountry   string           `json:"supplier_country"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// PriceCalculation is the record returned by the calculate-price operation.
// cost_local and selling_price_local are rounded to cents for reporting.
type PriceCalculation struct {
	BookID               int64           `json:"book_id"`
	CostUSD              decimal.Decimal `json:"cost_usd"`
	ExchangeRate         float64         `json:"exchange_rate"`
	CostLocal            decimal.Decimal `json:"cost_local"`
	MarginPercentage     int             `json:"margin_percentage"`
	SellingPriceLocal    decimal.Decimal `json:"selling_price_local"`
	Currency             string          `json:"currency"`
	CalculationTimestamp time.Time       `json:"calculation_timestamp"`
}
