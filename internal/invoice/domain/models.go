package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentStatus tracks invoice settlement.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Invoice is a business (B2B) invoice raised against a contract. The first
// successful payment on one of these triggers order auto-creation.
type Invoice struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	InvoiceRef       string            `gorm:"type:text;not null;uniqueIndex" json:"invoice_ref"`
	ContractID       *snowflake.ID     `gorm:"index" json:"contract_id,omitempty"`
	Amount           int64             `gorm:"not null" json:"amount"`
	AmountPaid       int64             `gorm:"not null;default:0" json:"amount_paid"`
	Currency         string            `gorm:"type:text;not null;default:'ZAR'" json:"currency"`
	PaymentStatus    PaymentStatus     `gorm:"type:text;not null;default:'pending';index" json:"payment_status"`
	PaymentReference string            `gorm:"type:text" json:"payment_reference,omitempty"`
	DueAt            *time.Time        `gorm:"column:due_at" json:"due_at,omitempty"`
	PaidAt           *time.Time        `gorm:"column:paid_at" json:"paid_at,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// CustomerInvoice is a recurring billing invoice raised per billing cycle.
type CustomerInvoice struct {
	ID               snowflake.ID  `gorm:"primaryKey" json:"id"`
	InvoiceRef       string        `gorm:"type:text;not null;uniqueIndex" json:"invoice_ref"`
	OrderID          *snowflake.ID `gorm:"index" json:"order_id,omitempty"`
	BillingCycleID   *snowflake.ID `gorm:"index" json:"billing_cycle_id,omitempty"`
	Amount           int64         `gorm:"not null" json:"amount"`
	AmountPaid       int64         `gorm:"not null;default:0" json:"amount_paid"`
	Currency         string        `gorm:"type:text;not null;default:'ZAR'" json:"currency"`
	PaymentStatus    PaymentStatus `gorm:"type:text;not null;default:'pending';index" json:"payment_status"`
	PaymentReference string        `gorm:"type:text" json:"payment_reference,omitempty"`
	PaidAt           *time.Time    `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CustomerInvoice) TableName() string { return "customer_invoices" }
