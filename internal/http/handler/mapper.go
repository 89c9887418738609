package handler

import (
	"time"

	"github.com/rezkam/cardfile/internal/domain"
)

// TextMaterialDTO is the wire representation of a text material.
type TextMaterialDTO struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	AuthorID       string    `json:"authorId"`
	AuthorName     string    `json:"authorName"`
	CategoryID     *int64    `json:"categoryId,omitempty"`
	CategoryTitle  *string   `json:"categoryTitle,omitempty"`
	ApprovalStatus string    `json:"approvalStatus"`
	DatePublished  time.Time `json:"datePublished"`
	RejectReason   *string   `json:"rejectReason,omitempty"`
	Version        int64     `json:"version"`
}

// MapMaterialToDTO converts a domain text material to its DTO.
func MapMaterialToDTO(m *domain.TextMaterial) TextMaterialDTO {
	return TextMaterialDTO{
		ID:             m.ID,
		Title:          m.Title,
		Content:        m.Content,
		AuthorID:       m.AuthorID,
		AuthorName:     m.AuthorName,
		CategoryID:     m.CategoryID,
		CategoryTitle:  m.CategoryTitle,
		ApprovalStatus: string(m.Status),
		DatePublished:  m.DatePublished,
		RejectReason:   m.RejectReason,
		Version:        m.Version,
	}
}

// MapMaterialsToDTO converts a slice of domain text materials.
func MapMaterialsToDTO(items []domain.TextMaterial) []TextMaterialDTO {
	out := make([]TextMaterialDTO, 0, len(items))
	for i := range items {
		out = append(out, MapMaterialToDTO(&items[i]))
	}
	return out
}
