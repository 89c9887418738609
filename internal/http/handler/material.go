package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/cardfile/internal/application/material"
	"github.com/rezkam/cardfile/internal/auth"
	"github.com/rezkam/cardfile/internal/http/response"
)

// ListMaterials handles GET /api/textMaterials.
func (s *Server) ListMaterials(w http.ResponseWriter, r *http.Request) {
	params, err := parseQueryParams(r.URL.Query())
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	caller := auth.CallerFromContext(r.Context())
	result, err := s.materials.List(r.Context(), caller, params)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OKPaged(w, *result, MapMaterialsToDTO(result.Items))
}

// GetMaterial handles GET /api/textMaterials/{id}.
func (s *Server) GetMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(w, r)
	if !ok {
		return
	}

	caller := auth.CallerFromContext(r.Context())
	m, err := s.materials.GetByID(r.Context(), caller, id)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapMaterialToDTO(m))
}

type createMaterialRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID *int64 `json:"categoryId"`
}

// CreateMaterial handles POST /api/textMaterials. The author is always the
// authenticated caller.
func (s *Server) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req createMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	caller := auth.CallerFromContext(r.Context())
	created, err := s.materials.Create(r.Context(), material.CreateParams{
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   caller.UserID,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	location := fmt.Sprintf("/api/textMaterials/%d", created.ID)
	response.Created(w, location, MapMaterialToDTO(created))
}

type updateMaterialRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	CategoryID *int64  `json:"categoryId"`
}

// UpdateMaterial handles PUT /api/textMaterials/{id}. Absent fields keep
// their current values.
func (s *Server) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(w, r)
	if !ok {
		return
	}

	var req updateMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	updated, err := s.materials.Update(r.Context(), material.UpdateParams{
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, MapMaterialToDTO(updated))
}

// DeleteMaterial handles DELETE /api/textMaterials/{id}.
func (s *Server) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(w, r)
	if !ok {
		return
	}

	if err := s.materials.Delete(r.Context(), id); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}

// ApproveMaterial handles PUT /api/textMaterials/{id}/approve.
func (s *Server) ApproveMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(w, r)
	if !ok {
		return
	}

	if _, err := s.materials.Approve(r.Context(), id); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}

type rejectMaterialRequest struct {
	RejectMessage *string `json:"rejectMessage"`
}

// RejectMaterial handles PUT /api/textMaterials/{id}/reject. The body is
// optional: a rejection without a message is allowed.
func (s *Server) RejectMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(w, r)
	if !ok {
		return
	}

	var req rejectMaterialRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
	}

	if _, err := s.materials.Reject(r.Context(), id, req.RejectMessage); err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.NoContent(w)
}

// materialID parses the {id} route parameter, writing a 400 on failure.
func materialID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.ValidationError(w, "id", "must be a positive integer")
		return 0, false
	}
	return id, true
}
