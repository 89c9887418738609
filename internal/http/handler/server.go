// Package handler implements the HTTP handlers for the text material API.
package handler

import (
	"github.com/rezkam/cardfile/internal/application/material"
)

// Server holds the handler dependencies.
type Server struct {
	materials *material.Service
}

// NewServer creates a new HTTP handler server.
func NewServer(materials *material.Service) *Server {
	return &Server{materials: materials}
}
