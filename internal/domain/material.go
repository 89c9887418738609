package domain

import (
	"fmt"
	"strings"
	"time"
)

// ApprovalStatus is the editorial state of a text material.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

// NewApprovalStatus parses a status name case-insensitively.
func NewApprovalStatus(s string) (ApprovalStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(StatusPending):
		return StatusPending, nil
	case string(StatusApproved):
		return StatusApproved, nil
	case string(StatusRejected):
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidApprovalStatus, s)
	}
}

// AllStatuses returns every approval status. The order is fixed so that
// callers iterating over it produce deterministic output.
func AllStatuses() []ApprovalStatus {
	return []ApprovalStatus{StatusPending, StatusApproved, StatusRejected}
}

// TextMaterial is a community-submitted article that passes through the
// editorial approval workflow before becoming publicly visible.
//
// AuthorName and CategoryTitle are resolved from their referenced entities
// when the material is loaded; the substring filters operate on them, so
// repositories must never return a material with the references left lazy.
type TextMaterial struct {
	ID            int64
	Title         string
	Content       string
	AuthorID      string
	AuthorName    string
	CategoryID    *int64
	CategoryTitle *string
	Status        ApprovalStatus
	DatePublished time.Time
	RejectReason  *string

	// Version is the optimistic concurrency token maintained by the store.
	Version int64
}

// User is the minimal author projection this service needs: identity for
// ownership checks and an address for notifications.
type User struct {
	ID       string
	UserName string
	Email    string
}

// Category groups text materials.
type Category struct {
	ID    int64
	Title string
}
