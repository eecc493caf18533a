package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	"gorm.io/gorm"
)

type repository struct{}

// Provide constructs the gorm-backed order repository.
func Provide() orderdomain.Repository {
	return repository{}
}

func (repository) Insert(ctx context.Context, db *gorm.DB, order *orderdomain.Order) error {
	if order == nil {
		return errors.New("missing_order")
	}
	return db.WithContext(ctx).Create(order).Error
}

func (repository) FindByRef(ctx context.Context, db *gorm.DB, orderRef string) (*orderdomain.Order, error) {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return nil, nil
	}
	var order orderdomain.Order
	err := db.WithContext(ctx).
		Where("order_ref = ?", orderRef).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (repository) List(ctx context.Context, db *gorm.DB, filter orderdomain.ListFilter) ([]orderdomain.Order, error) {
	query := db.WithContext(ctx).Model(&orderdomain.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		query = query.Where("customer_email = ?", email)
	}
	if filter.Cursor != 0 {
		query = query.Where("id < ?", filter.Cursor)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var orders []orderdomain.Order
	if err := query.Order("id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (repository) UpdateStatus(ctx context.Context, db *gorm.DB, order *orderdomain.Order, from orderdomain.OrderStatus, now time.Time) error {
	if order == nil || order.ID == 0 {
		return errors.New("missing_order")
	}
	updates := map[string]any{
		"status":     order.Status,
		"updated_at": now,
	}
	if order.InstallScheduledAt != nil {
		updates["install_scheduled_at"] = *order.InstallScheduledAt
	}
	if order.InstallCompletedAt != nil {
		updates["install_completed_at"] = *order.InstallCompletedAt
	}
	if order.ActivatedAt != nil {
		updates["activated_at"] = *order.ActivatedAt
	}
	result := db.WithContext(ctx).
		Model(&orderdomain.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return orderdomain.ErrInvalidTransition
	}
	return nil
}
