package domain

import (
	"context"
	"errors"
	"net/http"
)

// Service ingests provider webhooks. The HTTP layer translates the sentinel
// errors into the always-200 webhook contract.
type Service interface {
	IngestWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) error
	// ProviderConfigured reports whether a provider has usable credentials.
	ProviderConfigured(provider string) bool
	// Providers lists the registered provider names.
	Providers() []string
}

var (
	ErrInvalidProvider       = errors.New("invalid_provider")
	ErrProviderNotFound      = errors.New("provider_not_found")
	ErrProviderNotConfigured = errors.New("provider_not_configured")
	ErrInvalidSignature      = errors.New("invalid_signature")
	ErrInvalidPayload        = errors.New("invalid_payload")
	ErrInvalidEvent          = errors.New("invalid_event")
	ErrEventIgnored          = errors.New("event_ignored")
	ErrInvalidAmount         = errors.New("invalid_amount")
	ErrInvalidCurrency       = errors.New("invalid_currency")
	ErrEventAlreadyProcessed = errors.New("event_already_processed")
)
