package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"bookstock/internal/entity"

	"github.com/shopspring/decimal"
)

// NewTestBook returns a book fixture mirroring the canonical sample record.
func NewTestBook() entity.Book {
	return entity.Book{
		ID:              1,
		Title:           "El Quijote",
		Author:          "Miguel de Cervantes",
		ISBN:            "978-84-376-0494-7",
		CostUSD:         decimal.RequireFromString("15.99"),
		StockQuantity:   25,
		Category:        "Literatura Clásica",
		SupplierCountry: "ES",
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

// NewRequest creates a new HTTP request for testing.
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse captures a decoded HTTP response for assertions.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse decodes the recorded response body as JSON.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
