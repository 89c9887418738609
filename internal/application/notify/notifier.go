// Package notify delivers best-effort email notifications about text
// material lifecycle events. Delivery runs outside the request path and
// never affects the outcome of the operation that triggered it.
package notify

import (
	"context"

	"github.com/rezkam/cardfile/internal/domain"
)

// Sender delivers a single notification to its recipient. Implementations
// are expected to be safe for use from a single background goroutine.
type Sender interface {
	SendCreated(ctx context.Context, to domain.User, m domain.TextMaterial) error
	SendApproved(ctx context.Context, to domain.User, m domain.TextMaterial) error
	SendRejected(ctx context.Context, to domain.User, m domain.TextMaterial, reason string) error
	SendDeleted(ctx context.Context, to domain.User, m domain.TextMaterial) error
}

// NopSender discards every notification. Used when no mail transport is
// configured.
type NopSender struct{}

func (NopSender) SendCreated(context.Context, domain.User, domain.TextMaterial) error {
	return nil
}

func (NopSender) SendApproved(context.Context, domain.User, domain.TextMaterial) error {
	return nil
}

func (NopSender) SendRejected(context.Context, domain.User, domain.TextMaterial, string) error {
	return nil
}

func (NopSender) SendDeleted(context.Context, domain.User, domain.TextMaterial) error {
	return nil
}
