package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
)

const (
	providerName = "stripe"

	signatureHeader = "Stripe-Signature"

	// signatureTolerance bounds replay of old signed payloads.
	signatureTolerance = 5 * time.Minute
)

type factory struct {
	webhookSecret string
}

// NewFactory builds the Stripe webhook adapter factory.
func NewFactory(webhookSecret string) paymentdomain.AdapterFactory {
	return &factory{webhookSecret: strings.TrimSpace(webhookSecret)}
}

func (f *factory) Provider() string { return providerName }

func (f *factory) Configured() bool { return f.webhookSecret != "" }

func (f *factory) NewAdapter() (paymentdomain.ProviderAdapter, error) {
	if !f.Configured() {
		return nil, paymentdomain.ErrProviderNotConfigured
	}
	return &adapter{secret: f.webhookSecret, now: time.Now}, nil
}

type adapter struct {
	secret string
	now    func() time.Time
}

type eventPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID             string            `json:"id"`
			Amount         int64             `json:"amount"`
			AmountReceived int64             `json:"amount_received"`
			Currency       string            `json:"currency"`
			ReceiptEmail   string            `json:"receipt_email"`
			Metadata       map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
	Created int64 `json:"created"`
}

// SignHeader builds a Stripe-Signature header value for a payload, exposed
// for tests.
func SignHeader(payload []byte, secret string, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func (a *adapter) Verify(_ context.Context, payload []byte, headers http.Header) error {
	header := strings.TrimSpace(headers.Get(signatureHeader))
	if header == "" {
		return paymentdomain.ErrInvalidSignature
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return paymentdomain.ErrInvalidSignature
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return paymentdomain.ErrInvalidSignature
	}
	signedAt := time.Unix(unix, 0)
	if delta := a.now().Sub(signedAt); delta > signatureTolerance || delta < -signatureTolerance {
		return paymentdomain.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(a.secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	want := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(want), []byte(strings.TrimSpace(signature))) {
			return nil
		}
	}
	return paymentdomain.ErrInvalidSignature
}

func (a *adapter) Parse(_ context.Context, payload []byte) (*paymentdomain.PaymentEvent, error) {
	var body eventPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}

	var eventType string
	switch body.Type {
	case "payment_intent.succeeded":
		eventType = paymentdomain.EventTypePaymentSucceeded
	case "payment_intent.payment_failed":
		eventType = paymentdomain.EventTypePaymentFailed
	case "charge.refunded":
		eventType = paymentdomain.EventTypeRefunded
	default:
		return nil, paymentdomain.ErrEventIgnored
	}

	amount := body.Data.Object.AmountReceived
	if amount == 0 {
		amount = body.Data.Object.Amount
	}

	occurredAt := time.Now().UTC()
	if body.Created > 0 {
		occurredAt = time.Unix(body.Created, 0).UTC()
	}

	return &paymentdomain.PaymentEvent{
		Provider:      providerName,
		TransactionID: strings.TrimSpace(body.Data.Object.ID),
		Type:          eventType,
		Reference:     strings.TrimSpace(body.Data.Object.Metadata["invoice_ref"]),
		Amount:        amount,
		Currency:      strings.ToUpper(strings.TrimSpace(body.Data.Object.Currency)),
		PayerEmail:    strings.TrimSpace(body.Data.Object.ReceiptEmail),
		OccurredAt:    occurredAt,
	}, nil
}
