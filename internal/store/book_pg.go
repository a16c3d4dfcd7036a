package store

// Repository implementation (Postgres)

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookstock/internal/entity"
	"bookstock/internal/isbn"
	"bookstock/internal/usecase"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const bookColumns = `id, title, author, isbn, cost_usd, selling_price_local, stock_quantity, category, supplier_country, created_at, updated_at`

type BookPG struct {
	db *pgxpool.Pool
}

func NewBookPG(db *pgxpool.Pool) *BookPG {
	return &BookPG{db: db}
}

func (r *BookPG) List(ctx context.Context, p usecase.ListParams) ([]entity.Book, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if p.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category ILIKE $%d", argn))
		args = append(args, "%"+p.Category+"%")
		argn++
	}

	if p.SupplierCountry != "" {
		clauses = append(clauses, fmt.Sprintf("supplier_country = $%d", argn))
		args = append(args, p.SupplierCountry)
		argn++
	}

	if p.Threshold != nil {
		clauses = append(clauses, fmt.Sprintf("stock_quantity < $%d", argn))
		args = append(args, *p.Threshold)
		argn++
	}

	if p.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d OR category ILIKE $%d OR isbn ILIKE $%d)", argn, argn+1, argn+2, argn+3))
		pattern := "%" + p.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
		argn += 4
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	countSQL := "SELECT COUNT(*) FROM books " + where
	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM books
		%s
		ORDER BY id ASC
		LIMIT $%d OFFSET $%d`,
		bookColumns, where, argn, argn+1)

	args = append(args, p.Limit, p.Offset)
	rows, err := r.db.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []entity.Book
	for rows.Next() {
		var b entity.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	return books, total, rows.Err()
}

func (r *BookPG) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)

	var b entity.Book
	if err := scanBook(r.db.QueryRow(ctx, query, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, usecase.ErrNotFound
		}
		return entity.Book{}, err
	}
	return b, nil
}

func (r *BookPG) Create(ctx context.Context, b *entity.Book) error {
	const query = `
	INSERT INTO books (title, author, isbn, isbn_normalized, cost_usd, stock_quantity, category, supplier_country)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		b.Title, b.Author, b.ISBN, isbn.Normalize(b.ISBN),
		b.CostUSD, b.StockQuantity, b.Category, b.SupplierCountry,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return usecase.ErrDuplicateISBN
	}
	return err
}

func (r *BookPG) Update(ctx context.Context, b *entity.Book) error {
	// selling_price_local is untouched here; only the pricing flow writes it.
	const query = `
	UPDATE books
	SET title = $1, author = $2, isbn = $3, isbn_normalized = $4, cost_usd = $5,
	    stock_quantity = $6, category = $7, supplier_country = $8, updated_at = now()
	WHERE id = $9
	RETURNING selling_price_local, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		b.Title, b.Author, b.ISBN, isbn.Normalize(b.ISBN),
		b.CostUSD, b.StockQuantity, b.Category, b.SupplierCountry, b.ID,
	).Scan(&b.SellingPriceLocal, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return usecase.ErrNotFound
		}
		if isUniqueViolation(err) {
			return usecase.ErrDuplicateISBN
		}
		return err
	}
	return nil
}

func (r *BookPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func (r *BookPG) ExistsByISBN(ctx context.Context, normalizedISBN string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM books WHERE isbn_normalized = $1 AND id <> $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, normalizedISBN, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BookPG) UpdateSellingPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	const query = `UPDATE books SET selling_price_local = $1, updated_at = now() WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, price, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row, b *entity.Book) error {
	return row.Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.CostUSD, &b.SellingPriceLocal,
		&b.StockQuantity, &b.Category, &b.SupplierCountry, &b.CreatedAt, &b.UpdatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
