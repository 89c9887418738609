package domain

import "errors"

// Domain errors. Repositories and services return these (possibly wrapped);
// the HTTP layer maps them to status codes in one place.

var (
	// ErrNotFound indicates the requested text material does not exist or is
	// not visible to the caller.
	ErrNotFound = errors.New("text material not found")

	// ErrUserNotFound indicates the referenced author does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrCategoryNotFound indicates the referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrTitleRequired indicates a material was submitted without a title.
	ErrTitleRequired = errors.New("title is required")

	// ErrInvalidApprovalStatus indicates an unknown approval status name.
	ErrInvalidApprovalStatus = errors.New("invalid approval status")

	// ErrInvalidSortField indicates an order-by field outside the supported set.
	ErrInvalidSortField = errors.New("invalid sort field")

	// ErrInvalidSortDirection indicates a sort direction other than asc/desc.
	ErrInvalidSortDirection = errors.New("invalid sort direction")

	// ErrInvalidPagination indicates a non-positive page number or page size.
	ErrInvalidPagination = errors.New("invalid pagination parameters")

	// ErrConcurrencyConflict indicates a conflicting concurrent update was
	// detected by the store. It is propagated, never retried internally.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")

	// ErrStorage indicates an unexpected storage failure, fatal to the request.
	ErrStorage = errors.New("storage failure")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller's role does not permit the operation.
	ErrForbidden = errors.New("forbidden")
)
