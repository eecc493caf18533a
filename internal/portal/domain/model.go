package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusSuspended AccountStatus = "suspended"
)

// PortalAccount is a customer self-service portal login tied to an order.
type PortalAccount struct {
	ID                 snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrderID            *snowflake.ID `json:"order_id,omitempty"`
	Email              string        `gorm:"type:text;not null" json:"email"`
	FirstName          string        `gorm:"type:text;not null" json:"first_name"`
	LastName           string        `gorm:"type:text" json:"last_name"`
	PasswordHash       string        `gorm:"type:text;not null" json:"-"`
	MustChangePassword bool          `gorm:"not null;default:true" json:"must_change_password"`
	Status             string        `gorm:"type:text;not null;default:'active'" json:"status"`
	LastLoginAt        *time.Time    `json:"last_login_at,omitempty"`
	PasswordRotatedAt  *time.Time    `json:"password_rotated_at,omitempty"`
	CreatedAt          time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PortalAccount) TableName() string { return "portal_accounts" }
