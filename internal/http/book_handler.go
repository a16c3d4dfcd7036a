package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookstock/internal/entity"
	"bookstock/internal/httpx"
	"bookstock/internal/isbn"
	"bookstock/internal/usecase"

	"github.com/shopspring/decimal"
)

// pageSize is the fixed number of books per list page.
const pageSize = 5

type BookHandler struct {
	repo    usecase.BookRepository
	pricing *usecase.PricingService
}

func NewBookHandler(repo usecase.BookRepository, pricing *usecase.PricingService) *BookHandler {
	return &BookHandler{repo: repo, pricing: pricing}
}

// BookRequest is the payload for create and update. id and timestamps are
// assigned by the store; selling_price_local only by the pricing flow.
type BookRequest struct {
	Title           string          `json:"title" validate:"required,max=255"`
	Author          string          `json:"author" validate:"required,max=255"`
	ISBN            string          `json:"isbn" validate:"required,isbn"`
	CostUSD         decimal.Decimal `json:"cost_usd" validate:"required,gt=0"`
	StockQuantity   int             `json:"stock_quantity" validate:"gte=0"`
	Category        string          `json:"category" validate:"required,max=100"`
	SupplierCountry string          `json:"supplier_country" validate:"required,len=2"`
}

func (req *BookRequest) toEntity(id int64) *entity.Book {
	return &entity.Book{
		ID:              id,
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		CostUSD:         req.CostUSD,
		StockQuantity:   req.StockQuantity,
		Category:        req.Category,
		SupplierCountry: req.SupplierCountry,
	}
}

// Collection handles /books: GET lists, POST creates.
func (h *BookHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Create(w, r)
	default:
		httpx.JSONError(r, w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	}
}

// Detail handles /books/{id} and /books/{id}/calculate-price.
func (h *BookHandler) Detail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/books/")

	if idStr, ok := strings.CutSuffix(rest, "/calculate-price"); ok {
		if r.Method != http.MethodPost {
			httpx.JSONError(r, w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		id, ok := parseBookID(idStr)
		if !ok {
			httpx.JSONError(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		h.CalculatePrice(w, r, id)
		return
	}

	id, ok := parseBookID(rest)
	if !ok {
		httpx.JSONError(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.GetByID(w, r, id)
	case http.MethodPut:
		h.Update(w, r, id)
	case http.MethodDelete:
		h.Delete(w, r, id)
	default:
		httpx.JSONError(r, w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	}
}

func parseBookID(s string) (int64, bool) {
	if s == "" || strings.Contains(s, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// List handles GET /books with filters and fixed-size pagination.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := usecase.ListParams{
		Category:        query.Get("category"),
		SupplierCountry: query.Get("supplier_country"),
		Search:          query.Get("search"),
	}

	// Non-numeric thresholds are ignored silently.
	if t := query.Get("threshold"); t != "" && isDigits(t) {
		if n, err := strconv.Atoi(t); err == nil {
			params.Threshold = &n
		}
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	books, total, err := h.repo.List(r.Context(), params)
	if err != nil {
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if books == nil {
		books = []entity.Book{}
	}

	meta := map[string]interface{}{
		"count":    total,
		"page":     page,
		"next":     nil,
		"previous": nil,
	}
	if page*pageSize < total {
		meta["next"] = page + 1
	}
	if page > 1 {
		meta["previous"] = page - 1
	}

	httpx.JSONSuccess(r, w, books, meta)
}

// Create handles POST /books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", nil)
		return
	}

	if errs := ValidateStruct(req); len(errs) > 0 {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toErrorDetails(errs))
		return
	}

	// Pre-flight check; the unique index remains the authoritative guard.
	exists, err := h.repo.ExistsByISBN(r.Context(), isbn.Normalize(req.ISBN), 0)
	if err != nil {
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if exists {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", duplicateISBNDetails())
		return
	}

	book := req.toEntity(0)
	if err := h.repo.Create(r.Context(), book); err != nil {
		if errors.Is(err, usecase.ErrDuplicateISBN) {
			httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", duplicateISBNDetails())
			return
		}
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}

	httpx.JSONSuccessCreated(r, w, book)
}

// GetByID handles GET /books/{id}.
func (h *BookHandler) GetByID(w http.ResponseWriter, r *http.Request, id int64) {
	book, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			httpx.JSONError(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(r, w, book, nil)
}

// Update handles PUT /books/{id} with a full payload.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request, id int64) {
	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body", nil)
		return
	}

	if errs := ValidateStruct(req); len(errs) > 0 {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", toErrorDetails(errs))
		return
	}

	// Excluding id lets a book keep its own ISBN across updates.
	exists, err := h.repo.ExistsByISBN(r.Context(), isbn.Normalize(req.ISBN), id)
	if err != nil {
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if exists {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", duplicateISBNDetails())
		return
	}

	book := req.toEntity(id)
	if err := h.repo.Update(r.Context(), book); err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			httpx.JSONError(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		case errors.Is(err, usecase.ErrDuplicateISBN):
			httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", duplicateISBNDetails())
		default:
			httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}

	httpx.JSONSuccess(r, w, book, nil)
}

// Delete handles DELETE /books/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			httpx.JSONError(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		httpx.JSONError(r, w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// CalculatePrice handles POST /books/{id}/calculate-price.
func (h *BookHandler) CalculatePrice(w http.ResponseWriter, r *http.Request, id int64) {
	calc, err := h.pricing.CalculatePrice(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			httpx.JSONError(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		// The cause was logged by the service; the caller gets a generic message.
		httpx.JSONError(r, w, http.StatusInternalServerError, "CALCULATION_ERROR", "Internal error while calculating price", nil)
		return
	}
	httpx.JSONSuccess(r, w, calc, nil)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func toErrorDetails(errs []ValidationError) []httpx.ErrorDetail {
	details := make([]httpx.ErrorDetail, 0, len(errs))
	for _, e := range errs {
		details = append(details, httpx.ErrorDetail{Field: e.Field, Message: e.Message})
	}
	return details
}

func duplicateISBNDetails() []httpx.ErrorDetail {
	return []httpx.ErrorDetail{{Field: "isbn", Message: "a book with this ISBN already exists"}}
}
