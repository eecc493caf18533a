package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ContractStatus mirrors the order lifecycle coarsely.
type ContractStatus string

const (
	ContractStatusDraft          ContractStatus = "draft"
	ContractStatusPendingPayment ContractStatus = "pending_payment"
	ContractStatusPaid           ContractStatus = "paid"
	ContractStatusActive         ContractStatus = "active"
	ContractStatusCancelled      ContractStatus = "cancelled"
)

// Contract links a quote, a KYC session and (once materialized) an order.
type Contract struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"id"`
	QuoteID      snowflake.ID   `gorm:"not null;index" json:"quote_id"`
	KYCSessionID *string        `gorm:"type:text" json:"kyc_session_id,omitempty"`
	OrderID      *snowflake.ID  `gorm:"index" json:"order_id,omitempty"`
	Status       ContractStatus `gorm:"type:text;not null;default:'draft'" json:"status"`
	SignedAt     *time.Time     `gorm:"column:signed_at" json:"signed_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Contract) TableName() string { return "contracts" }

// Quote is the accepted package selection a contract was signed against.
type Quote struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	QuoteRef       string            `gorm:"type:text;not null;uniqueIndex" json:"quote_ref"`
	CustomerName   string            `gorm:"type:text;not null" json:"customer_name"`
	CustomerEmail  string            `gorm:"type:text;not null" json:"customer_email"`
	CustomerPhone  string            `gorm:"type:text" json:"customer_phone,omitempty"`
	PackageCode    string            `gorm:"type:text;not null" json:"package_code"`
	PackageName    string            `gorm:"type:text" json:"package_name,omitempty"`
	MonthlyAmount  int64             `gorm:"not null" json:"monthly_amount"`
	Currency       string            `gorm:"type:text;not null;default:'ZAR'" json:"currency"`
	InstallAddress string            `gorm:"type:text" json:"install_address,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Quote) TableName() string { return "quotes" }
