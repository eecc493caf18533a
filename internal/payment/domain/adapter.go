package domain

import (
	"context"
	"net/http"
)

// ProviderAdapter verifies and decodes one provider's webhook deliveries.
type ProviderAdapter interface {
	Verify(ctx context.Context, payload []byte, headers http.Header) error
	Parse(ctx context.Context, payload []byte) (*PaymentEvent, error)
}

// AdapterFactory builds adapters for a provider from service configuration.
type AdapterFactory interface {
	Provider() string
	// Configured reports whether the factory has the credentials it needs.
	Configured() bool
	NewAdapter() (ProviderAdapter, error)
}
