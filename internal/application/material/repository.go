package material

import (
	"context"

	"github.com/rezkam/cardfile/internal/domain"
)

// Repository is the storage contract the material service depends on.
// Implementations must resolve author and category references eagerly:
// the query pipeline filters on the resolved names.
type Repository interface {
	// Fetch returns a consistent snapshot of all text materials. Filtering,
	// sorting and paging happen in the service on top of this snapshot.
	Fetch(ctx context.Context) ([]domain.TextMaterial, error)

	// FindByID returns one material or domain.ErrNotFound.
	FindByID(ctx context.Context, id int64) (*domain.TextMaterial, error)

	// Create persists a new material and returns it with the assigned ID
	// and initial version.
	Create(ctx context.Context, m *domain.TextMaterial) (*domain.TextMaterial, error)

	// Update persists a mutated material guarded by its Version. A stale
	// version yields domain.ErrConcurrencyConflict; a missing row yields
	// domain.ErrNotFound.
	Update(ctx context.Context, m *domain.TextMaterial) (*domain.TextMaterial, error)

	// Delete removes a material or returns domain.ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// FindUserByID resolves an author, mainly for notification addressing.
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
}

// Notifier receives material lifecycle events. Calls happen strictly after
// the corresponding change has been committed, and are fire-and-forget: a
// failed or dropped notification never rolls back the transition.
type Notifier interface {
	MaterialCreated(user domain.User, m domain.TextMaterial)
	MaterialApproved(user domain.User, m domain.TextMaterial)
	MaterialRejected(user domain.User, m domain.TextMaterial, reason string)
	MaterialDeleted(user domain.User, m domain.TextMaterial)
}
