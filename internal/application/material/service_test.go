package material

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/cardfile/internal/domain"
	"github.com/rezkam/cardfile/internal/ptr"
)

// fakeRepo is an in-memory Repository with the same error semantics as the
// SQL store.
type fakeRepo struct {
	mu         sync.Mutex
	materials  map[int64]domain.TextMaterial
	users      map[string]domain.User
	nextID     int64
	fetchCalls int

	fetchErr  error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		materials: make(map[int64]domain.TextMaterial),
		users: map[string]domain.User{
			"u1": {ID: "u1", UserName: "alice", Email: "alice@example.com"},
			"u2": {ID: "u2", UserName: "bob", Email: "bob@example.com"},
		},
	}
}

func (r *fakeRepo) add(m domain.TextMaterial) domain.TextMaterial {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == 0 {
		r.nextID++
		m.ID = r.nextID
	} else if m.ID > r.nextID {
		r.nextID = m.ID
	}
	if m.Version == 0 {
		m.Version = 1
	}
	if u, ok := r.users[m.AuthorID]; ok && m.AuthorName == "" {
		m.AuthorName = u.UserName
	}
	r.materials[m.ID] = m
	return m
}

func (r *fakeRepo) Fetch(ctx context.Context) ([]domain.TextMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchCalls++
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	out := make([]domain.TextMaterial, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id int64) (*domain.TextMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	return &m, nil
}

func (r *fakeRepo) Create(ctx context.Context, m *domain.TextMaterial) (*domain.TextMaterial, error) {
	created := r.add(*m)
	return &created, nil
}

func (r *fakeRepo) Update(ctx context.Context, m *domain.TextMaterial) (*domain.TextMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	stored, ok := r.materials[m.ID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrNotFound, m.ID)
	}
	if stored.Version != m.Version {
		return nil, domain.ErrConcurrencyConflict
	}
	updated := *m
	updated.Version++
	r.materials[m.ID] = updated
	return &updated, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.materials[id]; !ok {
		return fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	delete(r.materials, id)
	return nil
}

func (r *fakeRepo) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", domain.ErrUserNotFound, id)
	}
	return &u, nil
}

// recordingNotifier records every event synchronously.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) record(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, fmt.Sprintf(format, args...))
}

func (n *recordingNotifier) MaterialCreated(u domain.User, m domain.TextMaterial) {
	n.record("created:%d:%s", m.ID, u.Email)
}

func (n *recordingNotifier) MaterialApproved(u domain.User, m domain.TextMaterial) {
	n.record("approved:%d:%s:%s", m.ID, u.Email, m.Status)
}

func (n *recordingNotifier) MaterialRejected(u domain.User, m domain.TextMaterial, reason string) {
	n.record("rejected:%d:%s:%s", m.ID, u.Email, reason)
}

func (n *recordingNotifier) MaterialDeleted(u domain.User, m domain.TextMaterial) {
	n.record("deleted:%d:%s", m.ID, u.Email)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

func newTestService(repo *fakeRepo) (*Service, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return NewService(repo, notifier, Config{DefaultPageSize: 10, MaxPageSize: 50}), notifier
}

func seedThree(repo *fakeRepo) {
	repo.add(domain.TextMaterial{Title: "first", AuthorID: "u1", Status: domain.StatusPending, DatePublished: day(1)})
	repo.add(domain.TextMaterial{Title: "second", AuthorID: "u1", Status: domain.StatusApproved, DatePublished: day(2)})
	repo.add(domain.TextMaterial{Title: "third", AuthorID: "u2", Status: domain.StatusApproved, DatePublished: day(3)})
}

func TestService_List_NonManagerSeesOnlyApproved(t *testing.T) {
	repo := newFakeRepo()
	seedThree(repo)
	svc, _ := newTestService(repo)

	result, err := svc.List(context.Background(), domain.Caller{Role: domain.RoleUser}, domain.QueryParams{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, []int64{2, 3}, ids(result.Items))
}

func TestService_List_ManagerDefaultIncludesPending(t *testing.T) {
	repo := newFakeRepo()
	seedThree(repo)
	svc, _ := newTestService(repo)

	result, err := svc.List(context.Background(), domain.Caller{Role: domain.RoleManager}, domain.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)

	// A requested {Rejected} filter is stripped for managers.
	result, err = svc.List(context.Background(), domain.Caller{Role: domain.RoleManager}, domain.QueryParams{
		Statuses: []domain.ApprovalStatus{domain.StatusRejected},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)
}

func TestService_List_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	seedThree(repo)
	svc, _ := newTestService(repo)

	params := domain.QueryParams{
		OrderBy:  []domain.SortKey{{Field: domain.SortByTitle, Direction: domain.Descending}},
		PageSize: 2,
	}
	caller := domain.Caller{Role: domain.RoleAdmin}

	first, err := svc.List(context.Background(), caller, params)
	require.NoError(t, err)
	second, err := svc.List(context.Background(), caller, params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestService_List_InvalidSortFieldFailsBeforeFetch(t *testing.T) {
	repo := newFakeRepo()
	seedThree(repo)
	svc, _ := newTestService(repo)

	_, err := svc.List(context.Background(), domain.Caller{Role: domain.RoleUser}, domain.QueryParams{
		OrderBy: []domain.SortKey{{Field: domain.SortField("authorId")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSortField)
	assert.Zero(t, repo.fetchCalls, "an invalid query must not touch the store")
}

func TestService_List_PagingDefaultsAndClamping(t *testing.T) {
	repo := newFakeRepo()
	seedThree(repo)
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, Config{DefaultPageSize: 2, MaxPageSize: 2})
	caller := domain.Caller{Role: domain.RoleAdmin}

	// Absent values pick up the defaults.
	result, err := svc.List(context.Background(), caller, domain.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentPage)
	assert.Equal(t, 2, result.PageSize)
	assert.Len(t, result.Items, 2)

	// Oversized page size is clamped to the configured maximum.
	result, err = svc.List(context.Background(), caller, domain.QueryParams{PageSize: 100})
	require.NoError(t, err)
	assert.Equal(t, 2, result.PageSize)

	// Negative values are rejected outright.
	_, err = svc.List(context.Background(), caller, domain.QueryParams{PageNumber: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)
}

func TestService_List_PagePastEndKeepsMetadata(t *testing.T) {
	repo := newFakeRepo()
	seedThree(repo)
	svc, _ := newTestService(repo)

	result, err := svc.List(context.Background(), domain.Caller{Role: domain.RoleAdmin}, domain.QueryParams{
		PageNumber: 99,
		PageSize:   10,
	})
	require.NoError(t, err)

	assert.Empty(t, result.Items)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 1, result.TotalPages)
	assert.False(t, result.HasNext)
}

func TestService_List_StorageErrorPropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.fetchErr = fmt.Errorf("%w: connection reset", domain.ErrStorage)
	svc, _ := newTestService(repo)

	_, err := svc.List(context.Background(), domain.Caller{Role: domain.RoleUser}, domain.QueryParams{})
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestService_GetByID_AppliesVisibility(t *testing.T) {
	repo := newFakeRepo()
	pending := repo.add(domain.TextMaterial{Title: "draft", AuthorID: "u1", Status: domain.StatusPending, DatePublished: day(1)})
	rejected := repo.add(domain.TextMaterial{Title: "spam", AuthorID: "u2", Status: domain.StatusRejected, DatePublished: day(2)})
	svc, _ := newTestService(repo)
	ctx := context.Background()

	// A regular user cannot see a pending material even by id.
	_, err := svc.GetByID(ctx, domain.Caller{Role: domain.RoleUser}, pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// A manager can.
	got, err := svc.GetByID(ctx, domain.Caller{Role: domain.RoleManager}, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, got.ID)

	// Rejected materials are admin-only.
	_, err = svc.GetByID(ctx, domain.Caller{Role: domain.RoleManager}, rejected.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err = svc.GetByID(ctx, domain.Caller{Role: domain.RoleAdmin}, rejected.ID)
	require.NoError(t, err)
	assert.Equal(t, rejected.ID, got.ID)

	// Unknown id is not found for everyone.
	_, err = svc.GetByID(ctx, domain.Caller{Role: domain.RoleAdmin}, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Create(t *testing.T) {
	repo := newFakeRepo()
	svc, notifier := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateParams{Title: "fresh", Content: "body", AuthorID: "u1"})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, "alice", created.AuthorName)
	assert.False(t, created.DatePublished.IsZero())
	assert.Equal(t, []string{fmt.Sprintf("created:%d:alice@example.com", created.ID)}, notifier.all())
}

func TestService_Create_Validation(t *testing.T) {
	repo := newFakeRepo()
	svc, notifier := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateParams{Title: "   ", AuthorID: "u1"})
	assert.ErrorIs(t, err, domain.ErrTitleRequired)

	_, err = svc.Create(ctx, CreateParams{Title: "ok", AuthorID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.Empty(t, notifier.all(), "failed creations must not notify")
}

func TestService_Approve(t *testing.T) {
	repo := newFakeRepo()
	m := repo.add(domain.TextMaterial{ID: 5, Title: "draft", AuthorID: "u1", Status: domain.StatusPending, DatePublished: day(1)})
	svc, notifier := newTestService(repo)
	ctx := context.Background()

	updated, err := svc.Approve(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.Nil(t, updated.RejectReason)

	// The approval is immediately visible to a non-manager query.
	result, err := svc.List(ctx, domain.Caller{Role: domain.RoleUser}, domain.QueryParams{})
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, ids(result.Items))

	assert.Equal(t, []string{"approved:5:alice@example.com:APPROVED"}, notifier.all())
}

func TestService_Approve_NotFound(t *testing.T) {
	repo := newFakeRepo()
	svc, notifier := newTestService(repo)

	_, err := svc.Approve(context.Background(), 123)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, notifier.all())
}

func TestService_Approve_RejectedMaterialCanBeReapproved(t *testing.T) {
	repo := newFakeRepo()
	m := repo.add(domain.TextMaterial{Title: "second chance", AuthorID: "u2",
		Status: domain.StatusRejected, RejectReason: ptr.To("duplicate"), DatePublished: day(1)})
	svc, _ := newTestService(repo)

	updated, err := svc.Approve(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.Nil(t, updated.RejectReason, "re-approval clears the reject reason")
}

func TestService_Reject(t *testing.T) {
	repo := newFakeRepo()
	m := repo.add(domain.TextMaterial{ID: 7, Title: "dup", AuthorID: "u2", Status: domain.StatusPending, DatePublished: day(1)})
	svc, notifier := newTestService(repo)
	ctx := context.Background()

	updated, err := svc.Reject(ctx, m.ID, ptr.To("duplicate"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, updated.Status)
	assert.Equal(t, "duplicate", ptr.Deref(updated.RejectReason, ""))

	// Rejected materials disappear from an Approved-only view.
	result, err := svc.List(ctx, domain.Caller{Role: domain.RoleUser}, domain.QueryParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Items)

	assert.Equal(t, []string{"rejected:7:bob@example.com:duplicate"}, notifier.all())
}

func TestService_Reject_ReasonIsOptional(t *testing.T) {
	repo := newFakeRepo()
	m := repo.add(domain.TextMaterial{Title: "meh", AuthorID: "u1", Status: domain.StatusPending, DatePublished: day(1)})
	svc, _ := newTestService(repo)

	updated, err := svc.Reject(context.Background(), m.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, updated.Status)
	assert.Nil(t, updated.RejectReason)
}

func TestService_Approve_AuthorLookupFailureDoesNotUndoTransition(t *testing.T) {
	repo := newFakeRepo()
	m := repo.add(domain.TextMaterial{Title: "orphan", AuthorID: "gone", Status: domain.StatusPending, DatePublished: day(1)})
	svc, notifier := newTestService(repo)

	updated, err := svc.Approve(context.Background(), m.ID)
	require.NoError(t, err, "notification problems are best-effort, not transition failures")
	assert.Equal(t, domain.StatusApproved, updated.Status)
	assert.Empty(t, notifier.all())
}

func TestService_Update(t *testing.T) {
	repo := newFakeRepo()
	m := repo.add(domain.TextMaterial{Title: "old", Content: "old body", AuthorID: "u1",
		Status: domain.StatusApproved, DatePublished: day(1)})
	svc, _ := newTestService(repo)

	updated, err := svc.Update(context.Background(), UpdateParams{ID: m.ID, Title: ptr.To("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "old body", updated.Content, "unset fields stay unchanged")
	assert.Equal(t, domain.StatusApproved, updated.Status)
}

func TestService_Update_ConcurrencyConflictPropagates(t *testing.T) {
	repo := newFakeRepo()
	m := repo.add(domain.TextMaterial{Title: "contended", AuthorID: "u1", Status: domain.StatusApproved, DatePublished: day(1)})
	repo.updateErr = domain.ErrConcurrencyConflict
	svc, _ := newTestService(repo)

	_, err := svc.Update(context.Background(), UpdateParams{ID: m.ID, Title: ptr.To("mine")})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
}

func TestService_Delete(t *testing.T) {
	repo := newFakeRepo()
	m := repo.add(domain.TextMaterial{Title: "bye", AuthorID: "u1", Status: domain.StatusApproved, DatePublished: day(1)})
	svc, notifier := newTestService(repo)

	require.NoError(t, svc.Delete(context.Background(), m.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), m.ID), domain.ErrNotFound)
	assert.Equal(t, []string{fmt.Sprintf("deleted:%d:alice@example.com", m.ID)}, notifier.all())
}
