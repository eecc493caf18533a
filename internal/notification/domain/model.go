package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Type string

const (
	TypeOrderUpdate  Type = "order_update"
	TypePayment      Type = "payment"
	TypeInstallation Type = "installation"
	TypeSystem       Type = "system"
	TypeAdminAlert   Type = "admin_alert"
)

// Notification is an in-app message addressed to a user or the admin
// audience.
type Notification struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID      string            `gorm:"type:text;not null;index" json:"user_id"`
	Type        string            `gorm:"type:text;not null" json:"type"`
	Title       string            `gorm:"type:text;not null" json:"title"`
	Message     string            `gorm:"type:text;not null" json:"message"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	Read        bool              `gorm:"not null;default:false" json:"read"`
	Dismissed   bool              `gorm:"not null;default:false" json:"dismissed"`
	ReadAt      *time.Time        `json:"read_at,omitempty"`
	DismissedAt *time.Time        `json:"dismissed_at,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }

func ValidType(t string) bool {
	switch Type(t) {
	case TypeOrderUpdate, TypePayment, TypeInstallation, TypeSystem, TypeAdminAlert:
		return true
	}
	return false
}
