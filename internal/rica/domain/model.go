package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "pending"
	StatusSubmitted SubmissionStatus = "submitted"
	StatusApproved  SubmissionStatus = "approved"
	StatusRejected  SubmissionStatus = "rejected"
)

// Submission is a RICA compliance submission for a contract. South African
// regulation requires an approved submission before a service goes live.
type Submission struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	ContractID  snowflake.ID      `gorm:"not null;index" json:"contract_id"`
	TrackingID  string            `gorm:"type:text;not null;uniqueIndex" json:"tracking_id"`
	IDNumber    *string           `gorm:"type:text" json:"-"`
	Status      string            `gorm:"type:text;not null;default:'pending';index" json:"status"`
	Reason      *string           `gorm:"type:text" json:"reason,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	SubmittedAt *time.Time        `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Submission) TableName() string { return "rica_submissions" }

func ValidSubmissionStatus(s string) bool {
	switch SubmissionStatus(s) {
	case StatusPending, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}
