package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	Status OrderStatus
	Email  string
	Cursor int64
	Limit  int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByRef(ctx context.Context, db *gorm.DB, orderRef string) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Order, error)
	// UpdateStatus persists a status change together with the milestone
	// timestamp columns touched by the transition. The write is guarded on
	// the status the caller read; a concurrent transition that got there
	// first surfaces as ErrInvalidTransition.
	UpdateStatus(ctx context.Context, db *gorm.DB, order *Order, from OrderStatus, now time.Time) error
}
