package domain

import (
	"context"
	"errors"
)

// Service records audit entries. Writes are best-effort at call sites; the
// service itself still reports failures so callers can log them.
type Service interface {
	AuditLog(ctx context.Context, actorType ActorType, actorID string, action string, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}

var (
	ErrInvalidAction = errors.New("invalid_audit_action")
	ErrInvalidTarget = errors.New("invalid_audit_target")
)
