package usecase

import (
	"context"
	"errors"

	"bookstock/internal/entity"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a book does not exist.
var ErrNotFound = errors.New("book not found")

// ErrDuplicateISBN is returned when a write would violate ISBN uniqueness.
// The store's unique constraint on the normalized ISBN is the authoritative
// guard; ExistsByISBN is only a pre-flight check.
var ErrDuplicateISBN = errors.New("isbn already exists")

// ListParams holds filters and pagination for listing books.
// Filters combine with logical AND.
type ListParams struct {
	Category        string // case-insensitive substring match
	SupplierCountry string // exact match
	Threshold       *int   // stock_quantity strictly below this value
	Search          string // substring match over title, author, category, isbn
	Limit           int
	Offset          int
}

// BookRepository defines the contract for book storage.
type BookRepository interface {
	// List returns a page of books ordered by id plus the total match count.
	List(ctx context.Context, p ListParams) ([]entity.Book, int, error)
	GetByID(ctx context.Context, id int64) (entity.Book, error)
	// Create inserts a book and fills in id and timestamps.
	Create(ctx context.Context, b *entity.Book) error
	// Update rewrites all user-writable fields of the book identified by b.ID.
	Update(ctx context.Context, b *entity.Book) error
	Delete(ctx context.Context, id int64) error
	// ExistsByISBN reports whether another book already carries the
	// normalized ISBN. excludeID skips the record being updated.
	ExistsByISBN(ctx context.Context, normalizedISBN string, excludeID int64) (bool, error)
	// UpdateSellingPrice writes only selling_price_local and updated_at.
	UpdateSellingPrice(ctx context.Context, id int64, price decimal.Decimal) error
}
