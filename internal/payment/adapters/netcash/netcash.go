package netcash

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
)

const (
	providerName = "netcash"

	serviceKeyHeader = "X-Netcash-Service-Key"
)

type factory struct {
	serviceKey string
}

// NewFactory builds the NetCash Pay Now adapter factory.
func NewFactory(serviceKey string) paymentdomain.AdapterFactory {
	return &factory{serviceKey: strings.TrimSpace(serviceKey)}
}

func (f *factory) Provider() string { return providerName }

func (f *factory) Configured() bool { return f.serviceKey != "" }

func (f *factory) NewAdapter() (paymentdomain.ProviderAdapter, error) {
	if !f.Configured() {
		return nil, paymentdomain.ErrProviderNotConfigured
	}
	return &adapter{serviceKey: f.serviceKey}, nil
}

type adapter struct {
	serviceKey string
}

// notifyPayload is the Pay Now notification body. Amount is rand-cents.
type notifyPayload struct {
	TransactionID string `json:"TransactionId"`
	Reference     string `json:"Reference"`
	Amount        int64  `json:"Amount"`
	Status        string `json:"TransactionAccepted"`
	Email         string `json:"Email"`
	Timestamp     int64  `json:"Timestamp"`
}

func (a *adapter) Verify(_ context.Context, _ []byte, headers http.Header) error {
	key := strings.TrimSpace(headers.Get(serviceKeyHeader))
	if key == "" {
		return paymentdomain.ErrInvalidSignature
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(a.serviceKey)) != 1 {
		return paymentdomain.ErrInvalidSignature
	}
	return nil
}

func (a *adapter) Parse(_ context.Context, payload []byte) (*paymentdomain.PaymentEvent, error) {
	var body notifyPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}

	eventType := paymentdomain.EventTypePaymentSucceeded
	switch strings.ToLower(strings.TrimSpace(body.Status)) {
	case "true", "accepted":
	case "false", "declined":
		eventType = paymentdomain.EventTypePaymentFailed
	default:
		return nil, paymentdomain.ErrInvalidEvent
	}

	occurredAt := time.Now().UTC()
	if body.Timestamp > 0 {
		occurredAt = time.Unix(body.Timestamp, 0).UTC()
	}

	return &paymentdomain.PaymentEvent{
		Provider:      providerName,
		TransactionID: strings.TrimSpace(body.TransactionID),
		Type:          eventType,
		Reference:     strings.TrimSpace(body.Reference),
		Amount:        body.Amount,
		Currency:      "ZAR",
		PayerEmail:    strings.TrimSpace(body.Email),
		OccurredAt:    occurredAt,
	}, nil
}
