package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// OrderStatus tracks an order through the activation pipeline.
type OrderStatus string

const (
	OrderStatusPaymentReceived       OrderStatus = "payment_received"
	OrderStatusInstallationScheduled OrderStatus = "installation_scheduled"
	OrderStatusInstallationCompleted OrderStatus = "installation_completed"
	OrderStatusActive                OrderStatus = "active"
	OrderStatusCancelled             OrderStatus = "cancelled"
	OrderStatusSuspended             OrderStatus = "suspended"
)

// Order is a consumer order. Orders are created on first successful payment
// and only ever move forward through status transitions; rows are never
// hard-deleted.
type Order struct {
	ID                 snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrderRef           string            `gorm:"type:text;not null;uniqueIndex" json:"order_ref"`
	ContractID         *snowflake.ID     `gorm:"index" json:"contract_id,omitempty"`
	CustomerName       string            `gorm:"type:text;not null" json:"customer_name"`
	CustomerEmail      string            `gorm:"type:text;not null;index" json:"customer_email"`
	CustomerPhone      string            `gorm:"type:text" json:"customer_phone,omitempty"`
	PackageCode        string            `gorm:"type:text;not null" json:"package_code"`
	PackageName        string            `gorm:"type:text" json:"package_name,omitempty"`
	MonthlyAmount      int64             `gorm:"not null" json:"monthly_amount"`
	Currency           string            `gorm:"type:text;not null;default:'ZAR'" json:"currency"`
	InstallAddress     string            `gorm:"type:text" json:"install_address,omitempty"`
	Status             OrderStatus       `gorm:"type:text;not null;index" json:"status"`
	PaymentRef         string            `gorm:"type:text" json:"payment_ref,omitempty"`
	InstallScheduledAt *time.Time        `gorm:"column:install_scheduled_at" json:"install_scheduled_at,omitempty"`
	InstallCompletedAt *time.Time        `gorm:"column:install_completed_at" json:"install_completed_at,omitempty"`
	ActivatedAt        *time.Time        `gorm:"column:activated_at" json:"activated_at,omitempty"`
	Metadata           datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt          time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "consumer_orders" }
