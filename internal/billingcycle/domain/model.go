package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type CycleStatus string

const (
	StatusOpen   CycleStatus = "OPEN"
	StatusClosed CycleStatus = "CLOSED"
)

// BillingCycle is a recurring billing period for a contract. At most one
// OPEN cycle may exist per contract, enforced by a partial unique index.
type BillingCycle struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	ContractID      snowflake.ID `gorm:"not null;index"`
	OrderID         *snowflake.ID
	Status          string    `gorm:"type:text;not null;default:'OPEN';index"`
	PeriodStart     time.Time `gorm:"not null"`
	PeriodEnd       time.Time `gorm:"not null"`
	RecurringAmount int64     `gorm:"not null"`
	Currency        string    `gorm:"type:text;not null;default:'ZAR'"`
	ClosedAt        *time.Time
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BillingCycle) TableName() string { return "billing_cycles" }
