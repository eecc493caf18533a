package domain

import (
	"context"
	"errors"
	"net/url"
)

var (
	ErrInvalidMandateRef = errors.New("invalid_mandate_ref")
	ErrInvalidNotify     = errors.New("invalid_notify_payload")
	ErrMandateNotFound   = errors.New("mandate_not_found")
)

// NotifyResult reports what the notify processing did; the HTTP layer
// responds 200 regardless, so failures travel through logs, not status
// codes.
type NotifyResult struct {
	MandateRef string
	Status     MandateStatus
	Created    bool
}

type Service interface {
	// HandleNotify processes a form-encoded NetCash eMandate notify
	// payload. Unknown mandate refs create a new row so out-of-order
	// deliveries are never dropped.
	HandleNotify(ctx context.Context, form url.Values, serviceKey string) (*NotifyResult, error)

	GetByRef(ctx context.Context, mandateRef string) (*EmandateRequest, error)
}
