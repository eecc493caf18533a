package payfast

import (
	"context"
	"crypto/md5"
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
	providerName = "payfast"

	signatureHeader = "X-Payfast-Signature"
)

type factory struct {
	merchantID string
	passphrase string
}

// NewFactory builds the PayFast ITN adapter factory.
func NewFactory(merchantID, passphrase string) paymentdomain.AdapterFactory {
	return &factory{
		merchantID: strings.TrimSpace(merchantID),
		passphrase: strings.TrimSpace(passphrase),
	}
}

func (f *factory) Provider() string { return providerName }

func (f *factory) Configured() bool { return f.merchantID != "" && f.passphrase != "" }

func (f *factory) NewAdapter() (paymentdomain.ProviderAdapter, error) {
	if !f.Configured() {
		return nil, paymentdomain.ErrProviderNotConfigured
	}
	return &adapter{merchantID: f.merchantID, passphrase: f.passphrase}, nil
}

type adapter struct {
	merchantID string
	passphrase string
}

type itnPayload struct {
	MerchantID    string `json:"merchant_id"`
	PFPaymentID   string `json:"pf_payment_id"`
	MPaymentID    string `json:"m_payment_id"`
	PaymentStatus string `json:"payment_status"`
	AmountGross   string `json:"amount_gross"`
	EmailAddress  string `json:"email_address"`
}

// Signature computes the ITN signature for a payload body: the MD5 of the
// raw body concatenated with the merchant passphrase.
func Signature(payload []byte, passphrase string) string {
	sum := md5.Sum(append(append([]byte{}, payload...), []byte(passphrase)...))
	return hex.EncodeToString(sum[:])
}

func (a *adapter) Verify(_ context.Context, payload []byte, headers http.Header) error {
	got := strings.ToLower(strings.TrimSpace(headers.Get(signatureHeader)))
	if got == "" {
		return paymentdomain.ErrInvalidSignature
	}
	want := Signature(payload, a.passphrase)
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return paymentdomain.ErrInvalidSignature
	}
	return nil
}

func (a *adapter) Parse(_ context.Context, payload []byte) (*paymentdomain.PaymentEvent, error) {
	var body itnPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, paymentdomain.ErrInvalidPayload
	}
	if strings.TrimSpace(body.MerchantID) != a.merchantID {
		return nil, paymentdomain.ErrInvalidEvent
	}

	var eventType string
	switch strings.ToUpper(strings.TrimSpace(body.PaymentStatus)) {
	case "COMPLETE":
		eventType = paymentdomain.EventTypePaymentSucceeded
	case "FAILED":
		eventType = paymentdomain.EventTypePaymentFailed
	case "CANCELLED":
		// Checkout abandoned before payment; nothing to reconcile.
		return nil, paymentdomain.ErrEventIgnored
	default:
		return nil, paymentdomain.ErrInvalidEvent
	}

	amount, err := parseRandAmount(body.AmountGross)
	if err != nil {
		return nil, paymentdomain.ErrInvalidAmount
	}

	return &paymentdomain.PaymentEvent{
		Provider:      providerName,
		TransactionID: strings.TrimSpace(body.PFPaymentID),
		Type:          eventType,
		Reference:     strings.TrimSpace(body.MPaymentID),
		Amount:        amount,
		Currency:      "ZAR",
		PayerEmail:    strings.TrimSpace(body.EmailAddress),
		OccurredAt:    time.Now().UTC(),
	}, nil
}

// parseRandAmount converts a decimal rand amount ("499.00") to cents.
func parseRandAmount(value string) (int64, error) {
	value = strings.TrimSpace(value)
	rands, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return int64(rands*100 + 0.5), nil
}
