package material

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezkam/cardfile/internal/domain"
)

func TestEffectiveStatuses_RegularUser(t *testing.T) {
	// Whatever a non-manager requests, the effective set is exactly {Approved}.
	requests := [][]domain.ApprovalStatus{
		nil,
		{},
		{domain.StatusPending},
		{domain.StatusRejected},
		{domain.StatusPending, domain.StatusApproved, domain.StatusRejected},
	}

	for _, req := range requests {
		got := EffectiveStatuses(domain.RoleUser, req)
		assert.Equal(t, []domain.ApprovalStatus{domain.StatusApproved}, got)
	}
}

func TestEffectiveStatuses_UnknownRoleFallsBackToApproved(t *testing.T) {
	got := EffectiveStatuses(domain.Role("EDITOR"), []domain.ApprovalStatus{domain.StatusPending})
	assert.Equal(t, []domain.ApprovalStatus{domain.StatusApproved}, got)

	got = EffectiveStatuses(domain.Role(""), nil)
	assert.Equal(t, []domain.ApprovalStatus{domain.StatusApproved}, got)
}

func TestEffectiveStatuses_Manager(t *testing.T) {
	tests := []struct {
		name      string
		requested []domain.ApprovalStatus
		want      []domain.ApprovalStatus
	}{
		{
			name:      "empty request defaults to pending and approved",
			requested: nil,
			want:      []domain.ApprovalStatus{domain.StatusPending, domain.StatusApproved},
		},
		{
			name:      "rejected is stripped",
			requested: []domain.ApprovalStatus{domain.StatusApproved, domain.StatusRejected},
			want:      []domain.ApprovalStatus{domain.StatusApproved},
		},
		{
			name:      "only rejected requested falls back to the default",
			requested: []domain.ApprovalStatus{domain.StatusRejected},
			want:      []domain.ApprovalStatus{domain.StatusPending, domain.StatusApproved},
		},
		{
			name:      "explicit pending honored",
			requested: []domain.ApprovalStatus{domain.StatusPending},
			want:      []domain.ApprovalStatus{domain.StatusPending},
		},
		{
			name:      "duplicates collapsed",
			requested: []domain.ApprovalStatus{domain.StatusPending, domain.StatusPending},
			want:      []domain.ApprovalStatus{domain.StatusPending},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EffectiveStatuses(domain.RoleManager, tc.requested)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEffectiveStatuses_Admin(t *testing.T) {
	tests := []struct {
		name      string
		requested []domain.ApprovalStatus
		want      []domain.ApprovalStatus
	}{
		{
			name:      "empty request means all statuses",
			requested: nil,
			want:      domain.AllStatuses(),
		},
		{
			name:      "rejected honored verbatim",
			requested: []domain.ApprovalStatus{domain.StatusRejected},
			want:      []domain.ApprovalStatus{domain.StatusRejected},
		},
		{
			name:      "subset honored verbatim",
			requested: []domain.ApprovalStatus{domain.StatusApproved, domain.StatusPending},
			want:      []domain.ApprovalStatus{domain.StatusApproved, domain.StatusPending},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EffectiveStatuses(domain.RoleAdmin, tc.requested)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEffectiveStatuses_NeverEmpty(t *testing.T) {
	roles := []domain.Role{domain.RoleUser, domain.RoleManager, domain.RoleAdmin, domain.Role("bogus")}
	requests := [][]domain.ApprovalStatus{nil, {}, {domain.StatusRejected}}

	for _, role := range roles {
		for _, req := range requests {
			assert.NotEmpty(t, EffectiveStatuses(role, req), "role %s request %v", role, req)
		}
	}
}

func TestEffectiveStatuses_DoesNotAliasRequest(t *testing.T) {
	requested := []domain.ApprovalStatus{domain.StatusPending, domain.StatusApproved}
	got := EffectiveStatuses(domain.RoleAdmin, requested)
	got[0] = domain.StatusRejected
	assert.Equal(t, domain.StatusPending, requested[0])
}
