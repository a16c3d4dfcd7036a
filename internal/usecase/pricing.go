package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"bookstock/internal/entity"

	"github.com/shopspring/decimal"
)

// Margin is the fixed markup applied over the converted cost.
const Margin = 0.40

// ErrCalculation is returned when price calculation fails for any reason
// other than the book being absent. The cause is logged server-side and
// never surfaced to the caller.
var ErrCalculation = errors.New("price calculation failed")

// RateProvider returns the USD to local currency exchange rate. It must
// always return a usable rate; unavailability of the live source is
// resolved inside the provider via its fallback.
type RateProvider interface {
	Rate(ctx context.Context) float64
}

// PricingService converts a book's USD cost into a local selling price.
type PricingService struct {
	books    BookRepository
	rates    RateProvider
	currency string
}

func NewPricingService(books BookRepository, rates RateProvider, currency string) *PricingService {
	return &PricingService{books: books, rates: rates, currency: currency}
}

// CalculatePrice loads the book, converts its cost and persists the selling
// price. The record is only written after all computation succeeded, so a
// failure leaves no partial state.
func (s *PricingService) CalculatePrice(ctx context.Context, bookID int64) (entity.PriceCalculation, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return entity.PriceCalculation{}, ErrNotFound
		}
		log.Printf("pricing: load book id=%d: %v", bookID, err)
		return entity.PriceCalculation{}, ErrCalculation
	}

	rate := s.rates.Rate(ctx)

	costLocal := book.CostUSD.Mul(decimal.NewFromFloat(rate))
	selling := costLocal.Mul(decimal.NewFromFloat(1 + Margin)).Round(2)

	if err := s.books.UpdateSellingPrice(ctx, book.ID, selling); err != nil {
		log.Printf("pricing: persist price book_id=%d: %v", book.ID, err)
		return entity.PriceCalculation{}, ErrCalculation
	}

	return entity.PriceCalculation{
		BookID:               book.ID,
		CostUSD:              book.CostUSD,
		ExchangeRate:         rate,
		CostLocal:            costLocal.Round(2),
		MarginPercentage:     int(Margin * 100),
		SellingPriceLocal:    selling,
		Currency:             s.currency,
		CalculationTimestamp: time.Now().UTC(),
	}, nil
}
