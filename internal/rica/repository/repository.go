package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	ricadomain "github.com/jdeweedata/circletel-sub013/internal/rica/domain"
	"gorm.io/gorm"
)

type repository struct{}

// Provide constructs the gorm-backed RICA repository.
func Provide() ricadomain.Repository {
	return repository{}
}

func (repository) Insert(ctx context.Context, db *gorm.DB, submission *ricadomain.Submission) error {
	if submission == nil {
		return errors.New("missing_submission")
	}
	return db.WithContext(ctx).Create(submission).Error
}

func (repository) FindByTrackingID(ctx context.Context, db *gorm.DB, trackingID string) (*ricadomain.Submission, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, ricadomain.ErrInvalidTrackingID
	}

	var submission ricadomain.Submission
	err := db.WithContext(ctx).
		Where("tracking_id = ?", trackingID).
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ricadomain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (repository) Save(ctx context.Context, db *gorm.DB, submission *ricadomain.Submission) error {
	if submission == nil {
		return errors.New("missing_submission")
	}
	return db.WithContext(ctx).Save(submission).Error
}

func (repository) CountApproved(ctx context.Context, db *gorm.DB, contractID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&ricadomain.Submission{}).
		Where("contract_id = ? AND status = ?", contractID, string(ricadomain.StatusApproved)).
		Count(&count).Error
	return count, err
}
