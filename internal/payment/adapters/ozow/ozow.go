package ozow

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
)

const (
	providerName = "ozow"

	hashHeader = "X-Ozow-Hash"
)

type factory struct {
	siteCode   string
	privateKey string
}

// NewFactory builds the Ozow EFT adapter factory.
func NewFactory(siteCode, privateKey string) paymentdomain.AdapterFactory {
	return &factory{
		siteCode:   strings.TrimSpace(siteCode),
		privateKey: strings.TrimSpace(privateKey),
	}
}

func (f *factory) Provider() string { return providerName }

func (f *factory) Configured() bool { return f.siteCode != "" && f.privateKey != "" }

func (f *factory) NewAdapter() (paymentdomain.ProviderAdapter, error) {
	if !f.Configured() {
		return nil, paymentdomain.ErrProviderNotConfigured
	}
	return &adapter{siteCode: f.siteCode, privateKey: f.privateKey}, nil
}

type adapter struct {
	siteCode   string
	privateKey string
}

type notifyPayload struct {
	SiteCode             string `json:"SiteCode"`
	TransactionID        string `json:"TransactionId"`
	TransactionReference string `json:"TransactionReference"`
	Amount               string `json:"Amount"`
	Status               string `json:"Status"`
	CurrencyCode         string `json:"CurrencyCode"`
}

// HashCheck computes the Ozow notification hash: SHA512 of the lowercased
// body concatenated with the private key.
func HashCheck(payload []byte, privateKey string) string {
	input := strings.ToLower(string(payload)) + strings.ToLower(privateKey)
	sum := sha512.Sum512([]byte(input))
	return hex.EncodeToString(sum[:])
}

func (a *adapter) Verify(_ context.Context, payload []byte, headers http.Header) error {
	got := strings.ToLower(strings.TrimSpace(headers.Get(hashHeader)))
	if got == "" {
		return paymentdomain.ErrInvalidSignature
	}
	want := HashCheck(payload, a.privateKey)
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return paymentdomain.ErrInvalidSignature
	}
	return nil
}

func (a *adapter) Parse(_ context.Context, payload []byte) (*paymentdomain.PaymentEvent, error) {
	var body notifyPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}
	if !strings.EqualFold(strings.TrimSpace(body.SiteCode), a.siteCode) {
		return nil, paymentdomain.ErrInvalidEvent
	}

	var eventType string
	switch strings.ToLower(strings.TrimSpace(body.Status)) {
	case "complete":
		eventType = paymentdomain.EventTypePaymentSucceeded
	case "error", "abandoned":
		eventType = paymentdomain.EventTypePaymentFailed
	case "cancelled":
		return nil, paymentdomain.ErrEventIgnored
	default:
		return nil, paymentdomain.ErrInvalidEvent
	}

	amount, err := parseRandAmount(body.Amount)
	if err != nil {
		return nil, paymentdomain.ErrInvalidAmount
	}

	currency := strings.ToUpper(strings.TrimSpace(body.CurrencyCode))
	if currency == "" {
		currency = "ZAR"
	}

	return &paymentdomain.PaymentEvent{
		Provider:      providerName,
		TransactionID: strings.TrimSpace(body.TransactionID),
		Type:          eventType,
		Reference:     strings.TrimSpace(body.TransactionReference),
		Amount:        amount,
		Currency:      currency,
		OccurredAt:    time.Now().UTC(),
	}, nil
}

func parseRandAmount(value string) (int64, error) {
	rands, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	return int64(rands*100 + 0.5), nil
}
