package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/jdeweedata/circletel-sub013/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
	}
}

func (s *Service) CreateEntry(
	ctx context.Context,
	sourceType string,
	sourceID snowflake.ID,
	currency string,
	occurredAt time.Time,
	lines []ledgerdomain.EntryLine,
) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if err := ledgerdomain.ValidateEntry(sourceType, sourceID, currency, occurredAt, lines); err != nil {
		return err
	}

	now := time.Now().UTC()
	entry := ledgerdomain.Entry{
		ID:         s.genID.Generate(),
		SourceType: sourceType,
		SourceID:   sourceID,
		Currency:   currency,
		OccurredAt: occurredAt.UTC(),
		CreatedAt:  now,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].ID = s.genID.Generate()
			lines[i].LedgerEntryID = entry.ID
			lines[i].CreatedAt = now
		}
		return tx.Create(&lines).Error
	})
}

// EnsureAccount returns the id for an account code, creating the row when
// it does not exist yet. Concurrent creates race safely on the unique code.
func EnsureAccount(ctx context.Context, db *gorm.DB, genID *snowflake.Node, code, name string) (snowflake.ID, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return 0, ledgerdomain.ErrInvalidAccount
	}

	var accountID snowflake.ID
	if err := db.WithContext(ctx).Raw(
		`SELECT id FROM ledger_accounts WHERE code = ?`, code,
	).Scan(&accountID).Error; err != nil {
		return 0, err
	}
	if accountID != 0 {
		return accountID, nil
	}

	if err := db.WithContext(ctx).Exec(
		`INSERT INTO ledger_accounts (id, code, name, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (code) DO NOTHING`,
		genID.Generate(), code, name, time.Now().UTC(),
	).Error; err != nil {
		return 0, err
	}

	if err := db.WithContext(ctx).Raw(
		`SELECT id FROM ledger_accounts WHERE code = ?`, code,
	).Scan(&accountID).Error; err != nil {
		return 0, err
	}
	if accountID == 0 {
		return 0, ledgerdomain.ErrInvalidAccount
	}
	return accountID, nil
}
