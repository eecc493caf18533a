package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidUser          = errors.New("invalid_user")
	ErrInvalidType          = errors.New("invalid_type")
	ErrInvalidTitle         = errors.New("invalid_title")
	ErrInvalidMessage       = errors.New("invalid_message")
	ErrNotificationNotFound = errors.New("notification_not_found")
)

type CreateRequest struct {
	UserID   string
	Type     string
	Title    string
	Message  string
	Metadata map[string]any
}

type ListRequest struct {
	UserID        string
	UnreadOnly    bool
	IncludeHidden bool
	Limit         int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Notification, error)
	List(ctx context.Context, req ListRequest) ([]*Notification, error)
	MarkRead(ctx context.Context, id snowflake.ID) (*Notification, error)
	Dismiss(ctx context.Context, id snowflake.ID) (*Notification, error)

	// AdminAlert records an admin-audience notification and emails the
	// operations inbox. Failures are logged, never propagated; webhook
	// handlers must not block on alerting.
	AdminAlert(ctx context.Context, action string, detail string, metadata map[string]any)
}
