package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	"github.com/jdeweedata/circletel-sub013/pkg/db/pagination"
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
	Repo  orderdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  orderdomain.Repository
}

func NewService(p Params) orderdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("order.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req orderdomain.CreateOrderRequest) (*orderdomain.Order, error) {
	req.OrderRef = strings.TrimSpace(req.OrderRef)
	if req.OrderRef == "" {
		return nil, orderdomain.ErrInvalidOrderRef
	}
	req.CustomerEmail = strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	if req.CustomerEmail == "" || strings.TrimSpace(req.CustomerName) == "" {
		return nil, orderdomain.ErrInvalidCustomer
	}
	if strings.TrimSpace(req.PackageCode) == "" {
		return nil, orderdomain.ErrInvalidPackage
	}
	if req.MonthlyAmount <= 0 {
		return nil, orderdomain.ErrInvalidAmount
	}

	existing, err := s.repo.FindByRef(ctx, s.db, req.OrderRef)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, orderdomain.ErrOrderExists
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "ZAR"
	}

	now := s.clock.Now()
	order := &orderdomain.Order{
		ID:             s.genID.Generate(),
		OrderRef:       req.OrderRef,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
		PackageCode:    strings.TrimSpace(req.PackageCode),
		PackageName:    strings.TrimSpace(req.PackageName),
		MonthlyAmount:  req.MonthlyAmount,
		Currency:       currency,
		InstallAddress: strings.TrimSpace(req.InstallAddress),
		Status:         orderdomain.OrderStatusPaymentReceived,
		PaymentRef:     strings.TrimSpace(req.PaymentRef),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.ContractID != 0 {
		contractID := snowflake.ID(req.ContractID)
		order.ContractID = &contractID
	}

	if err := s.repo.Insert(ctx, s.db, order); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_ref", order.OrderRef),
		zap.String("package_code", order.PackageCode),
	)
	return order, nil
}

func (s *Service) GetByRef(ctx context.Context, orderRef string) (*orderdomain.Order, error) {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return nil, orderdomain.ErrInvalidOrderRef
	}
	order, err := s.repo.FindByRef(ctx, s.db, orderRef)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, orderdomain.ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, req orderdomain.ListOrderRequest) (orderdomain.ListOrderResponse, error) {
	if req.Status != "" && !orderdomain.ValidStatus(req.Status) {
		return orderdomain.ListOrderResponse{}, orderdomain.ErrInvalidStatus
	}

	limit := int(req.PageSize)
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	orders, err := s.repo.List(ctx, s.db, orderdomain.ListFilter{
		Status: req.Status,
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Cursor: pagination.DecodeToken(req.PageToken),
		Limit:  limit + 1,
	})
	if err != nil {
		return orderdomain.ListOrderResponse{}, err
	}

	resp := orderdomain.ListOrderResponse{Orders: orders}
	if len(orders) > limit {
		resp.Orders = orders[:limit]
		resp.NextPageToken = pagination.EncodeToken(int64(orders[limit-1].ID))
	}
	return resp, nil
}

func (s *Service) ScheduleInstallation(ctx context.Context, orderRef string, scheduledFor time.Time) (*orderdomain.Order, error) {
	order, err := s.GetByRef(ctx, orderRef)
	if err != nil {
		return nil, err
	}
	if !orderdomain.CanTransition(order.Status, orderdomain.OrderStatusInstallationScheduled) {
		return nil, orderdomain.ErrInvalidTransition
	}

	now := s.clock.Now()
	from := order.Status
	order.Status = orderdomain.OrderStatusInstallationScheduled
	scheduled := scheduledFor.UTC()
	order.InstallScheduledAt = &scheduled
	if err := s.repo.UpdateStatus(ctx, s.db, order, from, now); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) CompleteInstallation(ctx context.Context, orderRef string) (*orderdomain.Order, error) {
	order, err := s.GetByRef(ctx, orderRef)
	if err != nil {
		return nil, err
	}
	if !orderdomain.CanTransition(order.Status, orderdomain.OrderStatusInstallationCompleted) {
		return nil, orderdomain.ErrInvalidTransition
	}

	now := s.clock.Now()
	from := order.Status
	order.Status = orderdomain.OrderStatusInstallationCompleted
	order.InstallCompletedAt = &now
	if err := s.repo.UpdateStatus(ctx, s.db, order, from, now); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) Transition(ctx context.Context, orderRef string, to orderdomain.OrderStatus) (*orderdomain.Order, error) {
	if !orderdomain.ValidStatus(to) {
		return nil, orderdomain.ErrInvalidStatus
	}
	order, err := s.GetByRef(ctx, orderRef)
	if err != nil {
		return nil, err
	}
	if !orderdomain.CanTransition(order.Status, to) {
		return nil, orderdomain.ErrInvalidTransition
	}

	now := s.clock.Now()
	from := order.Status
	order.Status = to
	if to == orderdomain.OrderStatusActive && order.ActivatedAt == nil {
		order.ActivatedAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, s.db, order, from, now); err != nil {
		return nil, err
	}

	s.log.Info("order status transition",
		zap.String("order_ref", order.OrderRef),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return order, nil
}
