package ozow

import (
	"context"
	"errors"
	"net/http"
	"testing"

	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
)

func newTestAdapter(t *testing.T) paymentdomain.ProviderAdapter {
	t.Helper()
	factory := NewFactory("CIR-CIR-001", "215114531AFF7134A94C88CEEA48E")
	adapter, err := factory.NewAdapter()
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return adapter
}

func TestVerifyAcceptsValidHash(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := []byte(`{"SiteCode":"CIR-CIR-001","TransactionId":"7f2e","Amount":"499.00","Status":"Complete"}`)

	headers := http.Header{}
	headers.Set("X-Ozow-Hash", HashCheck(payload, "215114531AFF7134A94C88CEEA48E"))

	if err := adapter.Verify(context.Background(), payload, headers); err != nil {
		t.Fatalf("expected valid hash, got %v", err)
	}
}

func TestVerifyRejectsMissingHash(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := []byte(`{"SiteCode":"CIR-CIR-001","TransactionId":"7f2e","Amount":"499.00","Status":"Complete"}`)

	err := adapter.Verify(context.Background(), payload, http.Header{})
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := []byte(`{"SiteCode":"CIR-CIR-001","TransactionId":"7f2e","Amount":"499.00","Status":"Complete"}`)

	headers := http.Header{}
	headers.Set("X-Ozow-Hash", HashCheck(payload, "215114531AFF7134A94C88CEEA48E"))

	tampered := []byte(`{"SiteCode":"CIR-CIR-001","TransactionId":"7f2e","Amount":"1.00","Status":"Complete"}`)
	err := adapter.Verify(context.Background(), tampered, headers)
	if !errors.Is(err, paymentdomain.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}
}

func TestParseComplete(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := []byte(`{"SiteCode":"CIR-CIR-001","TransactionId":"7f2e9b","TransactionReference":"ORD-2026-0042","Amount":"499.00","Status":"Complete","CurrencyCode":"ZAR"}`)

	event, err := adapter.Parse(context.Background(), payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != paymentdomain.EventTypePaymentSucceeded {
		t.Fatalf("expected succeeded, got %s", event.Type)
	}
	if event.TransactionID != "7f2e9b" {
		t.Fatalf("expected transaction id 7f2e9b, got %s", event.TransactionID)
	}
	if event.Reference != "ORD-2026-0042" {
		t.Fatalf("expected reference ORD-2026-0042, got %s", event.Reference)
	}
	if event.Amount != 49900 {
		t.Fatalf("expected 49900 cents, got %d", event.Amount)
	}
	if event.Currency != "ZAR" {
		t.Fatalf("expected ZAR, got %s", event.Currency)
	}
}

func TestParseAbandonedIsFailure(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := []byte(`{"SiteCode":"CIR-CIR-001","TransactionId":"7f2e9c","Amount":"499.00","Status":"Abandoned"}`)

	event, err := adapter.Parse(context.Background(), payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != paymentdomain.EventTypePaymentFailed {
		t.Fatalf("expected failed, got %s", event.Type)
	}
}

func TestParseCancelledIsIgnored(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := []byte(`{"SiteCode":"CIR-CIR-001","TransactionId":"7f2e9d","Amount":"499.00","Status":"Cancelled"}`)

	_, err := adapter.Parse(context.Background(), payload)
	if !errors.Is(err, paymentdomain.ErrEventIgnored) {
		t.Fatalf("expected event ignored, got %v", err)
	}
}

func TestParseRejectsForeignSiteCode(t *testing.T) {
	adapter := newTestAdapter(t)
	payload := []byte(`{"SiteCode":"OTH-OTH-999","TransactionId":"7f2e9e","Amount":"499.00","Status":"Complete"}`)

	_, err := adapter.Parse(context.Background(), payload)
	if !errors.Is(err, paymentdomain.ErrInvalidEvent) {
		t.Fatalf("expected invalid event, got %v", err)
	}
}
