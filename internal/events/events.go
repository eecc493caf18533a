package events

// Pipeline event types persisted to the outbox and dispatched by the
// notification worker.
const (
	EventPaymentReceived       = "payment.received"
	EventPaymentFailed         = "payment.failed"
	EventOrderCreated          = "order.created"
	EventOrderActivated        = "order.activated"
	EventInstallationScheduled = "installation.scheduled"
	EventInstallationCompleted = "installation.completed"
	EventMandateSigned         = "mandate.signed"
	EventMandateDeclined       = "mandate.declined"
	EventAdminAlert            = "admin.alert"
)

// PaymentPayload captures the minimal data needed to notify on a payment.
type PaymentPayload struct {
	TransactionID string `json:"transaction_id"`
	Provider      string `json:"provider"`
	Reference     string `json:"reference,omitempty"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	PayerEmail    string `json:"payer_email,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p PaymentPayload) ToMap() map[string]any {
	payload := map[string]any{
		"transaction_id": p.TransactionID,
		"provider":       p.Provider,
		"amount":         p.Amount,
		"currency":       p.Currency,
	}
	if p.Reference != "" {
		payload["reference"] = p.Reference
	}
	if p.PayerEmail != "" {
		payload["payer_email"] = p.PayerEmail
	}
	return payload
}

// OrderPayload captures the minimal data needed to notify on an order
// milestone.
type OrderPayload struct {
	OrderRef      string `json:"order_ref"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	PackageName   string `json:"package_name,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p OrderPayload) ToMap() map[string]any {
	payload := map[string]any{"order_ref": p.OrderRef}
	if p.CustomerName != "" {
		payload["customer_name"] = p.CustomerName
	}
	if p.CustomerEmail != "" {
		payload["customer_email"] = p.CustomerEmail
	}
	if p.PackageName != "" {
		payload["package_name"] = p.PackageName
	}
	return payload
}
