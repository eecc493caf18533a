package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidName     = errors.New("invalid_name")
	ErrAccountNotFound = errors.New("portal_account_not_found")
	ErrInvalidPassword = errors.New("invalid_password")
)

type EnsureAccountRequest struct {
	OrderID   *snowflake.ID
	Email     string
	FirstName string
	LastName  string
}

// EnsureAccountResult reports whether the account was created by this call
// and, if so, the temporary password issued for the welcome email.
type EnsureAccountResult struct {
	Account      *PortalAccount
	Created      bool
	TempPassword string
}

type Service interface {
	// EnsureAccount finds an account by email or creates one with a
	// temporary password and sends the welcome email.
	EnsureAccount(ctx context.Context, req EnsureAccountRequest) (*EnsureAccountResult, error)

	// FindByEmail scans accounts for a case-insensitive email match.
	FindByEmail(ctx context.Context, email string) (*PortalAccount, error)

	// VerifyPassword checks a login attempt against the stored hash.
	VerifyPassword(ctx context.Context, email string, password string) (*PortalAccount, error)

	// ResetPassword issues a fresh temporary password and emails it.
	ResetPassword(ctx context.Context, email string) (string, error)

	Suspend(ctx context.Context, email string) error
	Reactivate(ctx context.Context, email string) error
}
