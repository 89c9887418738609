package material

import (
	"slices"

	"github.com/rezkam/cardfile/internal/domain"
)

// EffectiveStatuses derives the approval status set actually applied to a
// query from the caller's role and the set they asked for. Both the list
// and the get-by-id paths go through this one function so the defaults
// cannot drift apart.
//
// Rules:
//   - Regular users (and anonymous callers, and unknown roles) only ever
//     see approved materials, whatever they request.
//   - Managers may see pending and approved materials. A requested set is
//     honored with Rejected stripped; an empty request (or one that ends
//     up empty after stripping) falls back to {Pending, Approved}.
//   - Admins get their requested set verbatim; an empty request means all
//     statuses.
//
// The result is always non-empty and never aliases the requested slice.
func EffectiveStatuses(role domain.Role, requested []domain.ApprovalStatus) []domain.ApprovalStatus {
	switch role {
	case domain.RoleAdmin:
		if len(requested) == 0 {
			return domain.AllStatuses()
		}
		return dedupe(requested)

	case domain.RoleManager:
		allowed := make([]domain.ApprovalStatus, 0, len(requested))
		for _, s := range requested {
			if s != domain.StatusRejected {
				allowed = append(allowed, s)
			}
		}
		if len(allowed) == 0 {
			return []domain.ApprovalStatus{domain.StatusPending, domain.StatusApproved}
		}
		return dedupe(allowed)

	default:
		return []domain.ApprovalStatus{domain.StatusApproved}
	}
}

func dedupe(statuses []domain.ApprovalStatus) []domain.ApprovalStatus {
	out := make([]domain.ApprovalStatus, 0, len(statuses))
	for _, s := range statuses {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
