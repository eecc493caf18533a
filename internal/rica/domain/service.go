package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidContract    = errors.New("invalid_contract")
	ErrInvalidTrackingID  = errors.New("invalid_tracking_id")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrSubmissionNotFound = errors.New("submission_not_found")
	ErrNotApproved        = errors.New("rica_not_approved")
)

type Service interface {
	// Submit records a new submission for a contract in pending status.
	Submit(ctx context.Context, contractID snowflake.ID, trackingID string, idNumber string) (*Submission, error)

	// UpdateStatus moves a submission by tracking id to the given status.
	UpdateStatus(ctx context.Context, trackingID string, status SubmissionStatus, reason string) (*Submission, error)

	// ApprovedForContract reports whether the contract has at least one
	// approved submission.
	ApprovedForContract(ctx context.Context, contractID snowflake.ID) (bool, error)

	// TriggerActivation calls the sibling activation endpoint for the
	// order. The call is best effort: failures are logged, never retried,
	// never returned to the caller's caller.
	TriggerActivation(ctx context.Context, orderRef string) error
}
