package response

import (
	"encoding/json"
	"net/http"

	"github.com/rezkam/cardfile/internal/domain"
)

// OK sends a 200 OK response with JSON data.
func OK(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}

// Created sends a 201 Created response with JSON data and a Location header.
func Created(w http.ResponseWriter, location string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if location != "" {
		w.Header().Set("Location", location)
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(data)
}

// NoContent sends a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// paginationMetadata mirrors the field names clients already parse out of
// the X-Pagination header.
type paginationMetadata struct {
	TotalCount  int  `json:"TotalCount"`
	PageSize    int  `json:"PageSize"`
	CurrentPage int  `json:"CurrentPage"`
	TotalPages  int  `json:"TotalPages"`
	HasNext     bool `json:"HasNext"`
	HasPrevious bool `json:"HasPrevious"`
}

// OKPaged sends a 200 OK response with JSON data and pagination metadata in
// the X-Pagination header. The header is explicitly exposed for browser
// clients.
func OKPaged[T any](w http.ResponseWriter, page domain.PagedResult[T], data interface{}) {
	metadata, err := json.Marshal(paginationMetadata{
		TotalCount:  page.TotalCount,
		PageSize:    page.PageSize,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
	})
	if err == nil {
		w.Header().Set("X-Pagination", string(metadata))
		w.Header().Set("Access-Control-Expose-Headers", "X-Pagination")
	}
	OK(w, data)
}
