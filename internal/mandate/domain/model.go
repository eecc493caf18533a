package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type MandateStatus string

const (
	StatusPending  MandateStatus = "pending"
	StatusSigned   MandateStatus = "signed"
	StatusDeclined MandateStatus = "declined"
	StatusFailed   MandateStatus = "failed"
)

// EmandateRequest is a debit-order mandate awaiting customer signature
// through the banking provider.
type EmandateRequest struct {
	ID          snowflake.ID      `gorm:"primaryKey"`
	MandateRef  string            `gorm:"type:text;not null;uniqueIndex"`
	OrderRef    *string           `gorm:"type:text;index"`
	CustomerID  *string           `gorm:"type:text"`
	ContractID  *snowflake.ID
	BankName    *string           `gorm:"type:text"`
	Status      string            `gorm:"type:text;not null;default:'pending';index"`
	Reason      *string           `gorm:"type:text"`
	ProviderRaw datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	SignedAt    *time.Time
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (EmandateRequest) TableName() string { return "emandate_requests" }

// PaymentMethod is the debit-order instrument captured once a mandate is
// signed.
type PaymentMethod struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	CustomerID   string       `gorm:"type:text;not null;index"`
	MandateID    *snowflake.ID
	Kind         string    `gorm:"type:text;not null;default:'debit_order'"`
	BankName     *string   `gorm:"type:text"`
	AccountLast4 *string   `gorm:"type:text"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PaymentMethod) TableName() string { return "payment_methods" }

func ValidMandateStatus(s string) bool {
	switch MandateStatus(s) {
	case StatusPending, StatusSigned, StatusDeclined, StatusFailed:
		return true
	}
	return false
}
