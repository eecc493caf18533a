package sla

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Milestone string

const (
	MilestonePaymentReceived       Milestone = "payment_received"
	MilestoneInstallationScheduled Milestone = "installation_scheduled"
	MilestoneInstallationCompleted Milestone = "installation_completed"
	MilestoneActivated             Milestone = "activated"
)

var ErrInvalidMilestone = errors.New("invalid_milestone")

// Record tracks per-order pipeline milestone timestamps for SLA reporting.
type Record struct {
	ID                      snowflake.ID `gorm:"primaryKey"`
	OrderID                 snowflake.ID `gorm:"not null;uniqueIndex"`
	PaymentReceivedAt       *time.Time
	InstallationScheduledAt *time.Time
	InstallationCompletedAt *time.Time
	ActivatedAt             *time.Time
	CreatedAt               time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt               time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "order_sla_records" }

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Tracker struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewTracker(p Params) *Tracker {
	return &Tracker{
		db:    p.DB,
		log:   p.Log.Named("sla.tracker"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

// RecordMilestone upserts the order's SLA record and stamps the milestone
// column. An already-stamped milestone is left untouched.
func (t *Tracker) RecordMilestone(ctx context.Context, orderID snowflake.ID, milestone Milestone) error {
	column, ok := milestoneColumn(milestone)
	if !ok {
		return ErrInvalidMilestone
	}

	now := t.clock.Now()
	err := t.db.WithContext(ctx).Exec(
		`INSERT INTO order_sla_records (id, order_id, `+column+`, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (order_id) DO UPDATE SET
			`+column+` = COALESCE(order_sla_records.`+column+`, excluded.`+column+`),
			updated_at = excluded.updated_at`,
		t.genID.Generate(),
		orderID,
		now,
		now,
		now,
	).Error
	if err != nil {
		return err
	}

	t.log.Debug("sla milestone recorded",
		zap.Int64("order_id", orderID.Int64()),
		zap.String("milestone", string(milestone)),
	)
	return nil
}

// ForOrder returns the order's SLA record, or nil when none exists.
func (t *Tracker) ForOrder(ctx context.Context, orderID snowflake.ID) (*Record, error) {
	var record Record
	err := t.db.WithContext(ctx).Where("order_id = ?", orderID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func milestoneColumn(m Milestone) (string, bool) {
	switch m {
	case MilestonePaymentReceived:
		return "payment_received_at", true
	case MilestoneInstallationScheduled:
		return "installation_scheduled_at", true
	case MilestoneInstallationCompleted:
		return "installation_completed_at", true
	case MilestoneActivated:
		return "activated_at", true
	}
	return "", false
}
