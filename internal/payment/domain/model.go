package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Event types normalized across providers.
const (
	EventTypePaymentSucceeded = "payment.succeeded"
	EventTypePaymentFailed    = "payment.failed"
	EventTypeRefunded         = "payment.refunded"
)

// WebhookEvent is the persisted record of an inbound provider webhook.
// The unique transaction_id is the idempotency guard: a replayed delivery
// hits the constraint and is short-circuited.
type WebhookEvent struct {
	ID            snowflake.ID   `gorm:"primaryKey"`
	Provider      string         `gorm:"type:text;not null;index"`
	TransactionID string         `gorm:"type:text;not null;uniqueIndex"`
	EventType     string         `gorm:"type:text;not null"`
	Reference     string         `gorm:"type:text;index"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
	ReceivedAt    time.Time      `gorm:"not null"`
	ProcessedAt   *time.Time     `gorm:"column:processed_at"`
}

// TableName sets the database table name.
func (WebhookEvent) TableName() string { return "payment_webhooks" }

// PaymentTransaction is one row per provider transaction id.
type PaymentTransaction struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	TransactionID string       `gorm:"type:text;not null;uniqueIndex"`
	Provider      string       `gorm:"type:text;not null"`
	Reference     string       `gorm:"type:text;index"`
	Amount        int64        `gorm:"not null"`
	Currency      string       `gorm:"type:text;not null"`
	Status        string       `gorm:"type:text;not null"`
	OccurredAt    time.Time    `gorm:"not null"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PaymentTransaction) TableName() string { return "payment_transactions" }

// PaymentEvent is the provider-agnostic decoded webhook payload.
type PaymentEvent struct {
	Provider      string
	TransactionID string
	Type          string
	// Reference identifies the invoice (or order) this payment applies to.
	Reference  string
	Amount     int64
	Currency   string
	PayerEmail string
	OccurredAt time.Time
}
