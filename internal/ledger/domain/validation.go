package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// ValidateEntry checks an entry header and its lines before persistence.
// Lines must be non-empty, positive, and debits must equal credits.
func ValidateEntry(sourceType string, sourceID snowflake.ID, currency string, occurredAt time.Time, lines []EntryLine) error {
	switch strings.TrimSpace(sourceType) {
	case SourceTypePaymentEvent, SourceTypeRefund, SourceTypeBillingCycle:
	default:
		return ErrInvalidSourceType
	}
	if sourceID == 0 {
		return ErrInvalidSourceID
	}
	if strings.TrimSpace(currency) == "" {
		return ErrInvalidCurrency
	}
	if occurredAt.IsZero() {
		return ErrInvalidOccurredAt
	}
	if len(lines) < 2 {
		return ErrInvalidEntryLines
	}

	var debits, credits int64
	for _, line := range lines {
		if line.AccountID == 0 {
			return ErrInvalidAccount
		}
		if line.Amount <= 0 {
			return ErrInvalidLineAmount
		}
		switch line.Direction {
		case EntryDirectionDebit:
			debits += line.Amount
		case EntryDirectionCredit:
			credits += line.Amount
		default:
			return ErrInvalidLineDirection
		}
	}
	if debits != credits {
		return ErrUnbalancedEntry
	}
	return nil
}
