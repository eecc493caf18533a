package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/jdeweedata/circletel-sub013/internal/billingcycle/domain"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  billingdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  billingdomain.Repository
}

func NewService(p Params) billingdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("billingcycle.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Open(ctx context.Context, req billingdomain.OpenCycleRequest) (*billingdomain.BillingCycle, error) {
	if req.ContractID == 0 {
		return nil, billingdomain.ErrInvalidContract
	}
	if req.RecurringAmount <= 0 {
		return nil, billingdomain.ErrInvalidAmount
	}
	start := req.PeriodStart
	if start.IsZero() {
		return nil, billingdomain.ErrInvalidPeriod
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "ZAR"
	}

	now := s.clock.Now()
	cycle := &billingdomain.BillingCycle{
		ID:              s.genID.Generate(),
		ContractID:      req.ContractID,
		OrderID:         req.OrderID,
		Status:          string(billingdomain.StatusOpen),
		PeriodStart:     start,
		PeriodEnd:       start.AddDate(0, 1, 0),
		RecurringAmount: req.RecurringAmount,
		Currency:        currency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	inserted, err := s.repo.InsertOpen(ctx, s.db, cycle)
	if err != nil {
		return nil, err
	}
	if !inserted {
		existing, err := s.repo.FindOpen(ctx, s.db, req.ContractID)
		if err != nil {
			return nil, err
		}
		s.log.Debug("billing cycle already open",
			zap.Int64("contract_id", req.ContractID.Int64()))
		return existing, nil
	}

	s.log.Info("billing cycle opened",
		zap.Int64("contract_id", req.ContractID.Int64()),
		zap.Time("period_start", cycle.PeriodStart),
		zap.Time("period_end", cycle.PeriodEnd),
	)
	return cycle, nil
}

func (s *Service) Active(ctx context.Context, contractID snowflake.ID) (*billingdomain.BillingCycle, error) {
	if contractID == 0 {
		return nil, billingdomain.ErrInvalidContract
	}
	return s.repo.FindOpen(ctx, s.db, contractID)
}

func (s *Service) CloseActive(ctx context.Context, contractID snowflake.ID) error {
	if contractID == 0 {
		return billingdomain.ErrInvalidContract
	}
	if err := s.repo.Close(ctx, s.db, contractID, s.clock.Now()); err != nil {
		return err
	}
	s.log.Info("billing cycle closed", zap.Int64("contract_id", contractID.Int64()))
	return nil
}
