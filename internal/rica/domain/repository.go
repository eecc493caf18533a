package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, submission *Submission) error
	FindByTrackingID(ctx context.Context, db *gorm.DB, trackingID string) (*Submission, error)
	Save(ctx context.Context, db *gorm.DB, submission *Submission) error
	CountApproved(ctx context.Context, db *gorm.DB, contractID snowflake.ID) (int64, error)
}
