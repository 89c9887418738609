package material

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/rezkam/cardfile/internal/domain"
	"github.com/rezkam/cardfile/internal/ptr"
)

// Default pagination limits, used when the config carries zero values.
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Config holds configuration for the Service.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Service provides the business logic for text materials: the role-aware
// query pipeline and the approval state machine. It holds no mutable state
// across requests; every call operates on the snapshot its repository
// returns.
type Service struct {
	repo     Repository
	notifier Notifier
	config   Config
}

// NewService creates a new material service, applying defaults for zero or
// invalid config values.
func NewService(repo Repository, notifier Notifier, config Config) *Service {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = MaxPageSize
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		config:   config,
	}
}

// List runs the whole query pipeline for one request: the visibility policy
// clamps the requested status set by role, then the snapshot is filtered,
// sorted and paged. Parameters are validated up front so the call either
// applies everything consistently or fails without partial results.
func (s *Service) List(ctx context.Context, caller domain.Caller, params domain.QueryParams) (*domain.PagedResult[domain.TextMaterial], error) {
	keys, err := normalizeSortKeys(params.OrderBy)
	if err != nil {
		return nil, err
	}
	pageNumber, pageSize, err := s.normalizePaging(params.PageNumber, params.PageSize)
	if err != nil {
		return nil, err
	}

	statuses := EffectiveStatuses(caller.Role, params.Statuses)

	items, err := s.repo.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch materials: %w", err)
	}

	filtered := applyFilters(items, params, statuses)
	sortMaterials(filtered, keys)

	result, err := paginate(filtered, pageNumber, pageSize)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetByID returns one material, subject to the same visibility policy as
// List: a material outside the caller's effective status set is reported as
// not found rather than leaked.
func (s *Service) GetByID(ctx context.Context, caller domain.Caller, id int64) (*domain.TextMaterial, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(EffectiveStatuses(caller.Role, nil), m.Status) {
		return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	return m, nil
}

// CreateParams carries the fields of a new text material.
type CreateParams struct {
	Title      string
	Content    string
	AuthorID   string
	CategoryID *int64
}

// Create stores a new material in the Pending state and notifies the author.
func (s *Service) Create(ctx context.Context, p CreateParams) (*domain.TextMaterial, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, domain.ErrTitleRequired
	}

	author, err := s.repo.FindUserByID(ctx, p.AuthorID)
	if err != nil {
		return nil, err
	}

	m := &domain.TextMaterial{
		Title:         p.Title,
		Content:       p.Content,
		AuthorID:      author.ID,
		AuthorName:    author.UserName,
		CategoryID:    p.CategoryID,
		Status:        domain.StatusPending,
		DatePublished: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	s.notifier.MaterialCreated(*author, *created)
	return created, nil
}

// UpdateParams carries a partial update; nil fields are left unchanged.
// Only title, content and category are caller-mutable; approval status
// changes only through Approve and Reject.
type UpdateParams struct {
	ID         int64
	Title      *string
	Content    *string
	CategoryID *int64
}

// Update applies a partial update guarded by the material's version. A
// conflicting concurrent change surfaces as domain.ErrConcurrencyConflict.
func (s *Service) Update(ctx context.Context, p UpdateParams) (*domain.TextMaterial, error) {
	m, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, domain.ErrTitleRequired
		}
		m.Title = *p.Title
	}
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.CategoryID != nil {
		m.CategoryID = p.CategoryID
	}

	return s.repo.Update(ctx, m)
}

// Delete removes a material and notifies its author.
func (s *Service) Delete(ctx context.Context, id int64) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifyAuthor(ctx, *m, func(u domain.User) {
		s.notifier.MaterialDeleted(u, *m)
	})
	return nil
}

// Approve marks a material approved and clears any previous reject reason.
// There is deliberately no "must be pending" guard: a rejected material may
// be re-approved. The status change is committed before the notification is
// handed to the notifier, and a notification failure never undoes it.
func (s *Service) Approve(ctx context.Context, id int64) (*domain.TextMaterial, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.Status = domain.StatusApproved
	m.RejectReason = nil

	updated, err := s.repo.Update(ctx, m)
	if err != nil {
		return nil, err
	}

	s.notifyAuthor(ctx, *updated, func(u domain.User) {
		s.notifier.MaterialApproved(u, *updated)
	})
	return updated, nil
}

// Reject marks a material rejected, storing the optional reason. Like
// Approve it is permissive about the current status.
func (s *Service) Reject(ctx context.Context, id int64, reason *string) (*domain.TextMaterial, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.Status = domain.StatusRejected
	m.RejectReason = reason

	updated, err := s.repo.Update(ctx, m)
	if err != nil {
		return nil, err
	}

	s.notifyAuthor(ctx, *updated, func(u domain.User) {
		s.notifier.MaterialRejected(u, *updated, ptr.Deref(reason, ""))
	})
	return updated, nil
}

// notifyAuthor resolves the author and hands the event to the notifier.
// Notifications are best-effort: a failed author lookup is logged and the
// event skipped, never surfaced to the caller.
func (s *Service) notifyAuthor(ctx context.Context, m domain.TextMaterial, notify func(domain.User)) {
	author, err := s.repo.FindUserByID(ctx, m.AuthorID)
	if err != nil {
		slog.WarnContext(ctx, "skipping notification, author lookup failed",
			"material_id", m.ID,
			"author_id", m.AuthorID,
			"error", err)
		return
	}
	notify(*author)
}

// normalizePaging applies defaults for absent values and the configured
// maximum page size. Explicit negative values are invalid and rejected.
func (s *Service) normalizePaging(pageNumber, pageSize int) (int, int, error) {
	if pageNumber < 0 || pageSize < 0 {
		return 0, 0, fmt.Errorf("%w: pageNumber=%d pageSize=%d", domain.ErrInvalidPagination, pageNumber, pageSize)
	}
	if pageNumber == 0 {
		pageNumber = 1
	}
	if pageSize == 0 {
		pageSize = s.config.DefaultPageSize
	}
	pageSize = min(pageSize, s.config.MaxPageSize)
	return pageNumber, pageSize, nil
}
