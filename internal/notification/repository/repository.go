package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	notificationdomain "github.com/jdeweedata/circletel-sub013/internal/notification/domain"
	"gorm.io/gorm"
)

type repository struct{}

// Provide constructs the gorm-backed notification repository.
func Provide() notificationdomain.Repository {
	return repository{}
}

func (repository) Insert(ctx context.Context, db *gorm.DB, notification *notificationdomain.Notification) error {
	if notification == nil {
		return errors.New("missing_notification")
	}
	return db.WithContext(ctx).Create(notification).Error
}

func (repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*notificationdomain.Notification, error) {
	var notification notificationdomain.Notification
	err := db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notificationdomain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (repository) Save(ctx context.Context, db *gorm.DB, notification *notificationdomain.Notification) error {
	if notification == nil {
		return errors.New("missing_notification")
	}
	return db.WithContext(ctx).Save(notification).Error
}

func (repository) List(ctx context.Context, db *gorm.DB, req notificationdomain.ListRequest) ([]*notificationdomain.Notification, error) {
	query := db.WithContext(ctx).Model(&notificationdomain.Notification{})
	if userID := strings.TrimSpace(req.UserID); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if req.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	if !req.IncludeHidden {
		query = query.Where("dismissed = ?", false)
	}

	limit := req.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var notifications []*notificationdomain.Notification
	if err := query.Order("id DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}
