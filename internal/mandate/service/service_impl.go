package service

import (
	"context"
	"crypto/subtle"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	"github.com/jdeweedata/circletel-sub013/internal/config"
	"github.com/jdeweedata/circletel-sub013/internal/events"
	mandatedomain "github.com/jdeweedata/circletel-sub013/internal/mandate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   mandatedomain.Repository
	Outbox *events.Outbox
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       mandatedomain.Repository
	outbox     *events.Outbox
	serviceKey string
}

func NewService(p Params) mandatedomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("mandate.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		outbox:     p.Outbox,
		serviceKey: p.Config.NetcashEmandateServiceKey,
	}
}

// HandleNotify maps the NetCash notify form onto a mandate row. The Extra1,
// Extra2 and Extra3 custom fields carry the order reference, customer id
// and contract id in that order; NetCash echoes them back positionally.
func (s *Service) HandleNotify(ctx context.Context, form url.Values, serviceKey string) (*mandatedomain.NotifyResult, error) {
	// The form path carries no signature. When a service key is configured
	// and the provider sends one, compare them; a missing key is accepted.
	if s.serviceKey != "" && serviceKey != "" {
		if subtle.ConstantTimeCompare([]byte(s.serviceKey), []byte(serviceKey)) != 1 {
			return nil, mandatedomain.ErrInvalidNotify
		}
	}

	mandateRef := strings.TrimSpace(form.Get("MandateId"))
	if mandateRef == "" {
		mandateRef = strings.TrimSpace(form.Get("RequestTrace"))
	}
	if mandateRef == "" {
		return nil, mandatedomain.ErrInvalidMandateRef
	}

	status := mapNotifyStatus(form.Get("Status"))
	orderRef := strings.TrimSpace(form.Get("Extra1"))
	customerID := strings.TrimSpace(form.Get("Extra2"))
	contractRaw := strings.TrimSpace(form.Get("Extra3"))
	bankName := strings.TrimSpace(form.Get("BankName"))
	reason := strings.TrimSpace(form.Get("Reason"))

	now := s.clock.Now()
	created := false

	mandate, err := s.repo.FindByRef(ctx, s.db, mandateRef)
	if err == mandatedomain.ErrMandateNotFound {
		mandate = &mandatedomain.EmandateRequest{
			ID:          s.genID.Generate(),
			MandateRef:  mandateRef,
			Status:      string(mandatedomain.StatusPending),
			ProviderRaw: datatypes.JSONMap{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		created = true
	} else if err != nil {
		return nil, err
	}

	mandate.Status = string(status)
	mandate.UpdatedAt = now
	if orderRef != "" {
		mandate.OrderRef = &orderRef
	}
	if customerID != "" {
		mandate.CustomerID = &customerID
	}
	if contractRaw != "" {
		if contractID, parseErr := strconv.ParseInt(contractRaw, 10, 64); parseErr == nil {
			id := snowflake.ID(contractID)
			mandate.ContractID = &id
		}
	}
	if bankName != "" {
		mandate.BankName = &bankName
	}
	if reason != "" {
		mandate.Reason = &reason
	}
	if status == mandatedomain.StatusSigned {
		mandate.SignedAt = &now
	}
	if mandate.ProviderRaw == nil {
		mandate.ProviderRaw = datatypes.JSONMap{}
	}
	for key := range form {
		mandate.ProviderRaw[key] = form.Get(key)
	}

	if created {
		err = s.repo.Insert(ctx, s.db, mandate)
	} else {
		err = s.repo.Save(ctx, s.db, mandate)
	}
	if err != nil {
		return nil, err
	}

	if status == mandatedomain.StatusSigned && customerID != "" {
		s.capturePaymentMethod(ctx, mandate, form, customerID, now)
	}

	s.publishOutcome(ctx, mandate, status)

	s.log.Info("emandate notify processed",
		zap.String("mandate_ref", mandateRef),
		zap.String("status", string(status)),
		zap.Bool("created", created),
	)
	return &mandatedomain.NotifyResult{
		MandateRef: mandateRef,
		Status:     status,
		Created:    created,
	}, nil
}

func (s *Service) GetByRef(ctx context.Context, mandateRef string) (*mandatedomain.EmandateRequest, error) {
	return s.repo.FindByRef(ctx, s.db, mandateRef)
}

func (s *Service) capturePaymentMethod(ctx context.Context, mandate *mandatedomain.EmandateRequest, form url.Values, customerID string, now time.Time) {
	method := &mandatedomain.PaymentMethod{
		ID:         s.genID.Generate(),
		CustomerID: customerID,
		MandateID:  &mandate.ID,
		Kind:       "debit_order",
		BankName:   mandate.BankName,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if account := strings.TrimSpace(form.Get("AccountNumber")); len(account) >= 4 {
		last4 := account[len(account)-4:]
		method.AccountLast4 = &last4
	}
	if err := s.repo.InsertPaymentMethod(ctx, s.db, method); err != nil {
		s.log.Error("payment method capture failed",
			zap.String("mandate_ref", mandate.MandateRef),
			zap.Error(err),
		)
	}
}

func (s *Service) publishOutcome(ctx context.Context, mandate *mandatedomain.EmandateRequest, status mandatedomain.MandateStatus) {
	var eventType string
	switch status {
	case mandatedomain.StatusSigned:
		eventType = events.EventMandateSigned
	case mandatedomain.StatusDeclined, mandatedomain.StatusFailed:
		eventType = events.EventMandateDeclined
	default:
		return
	}

	payload := map[string]any{
		"mandate_ref": mandate.MandateRef,
		"status":      string(status),
	}
	if mandate.OrderRef != nil {
		payload["order_ref"] = *mandate.OrderRef
	}

	err := s.outbox.Publish(ctx, events.Event{
		Type:      eventType,
		Payload:   payload,
		DedupeKey: eventType + ":" + mandate.MandateRef,
	})
	if err != nil {
		s.log.Error("mandate event publish failed",
			zap.String("mandate_ref", mandate.MandateRef),
			zap.Error(err),
		)
	}
}

func mapNotifyStatus(raw string) mandatedomain.MandateStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accepted", "signed", "active":
		return mandatedomain.StatusSigned
	case "declined", "rejected", "cancelled":
		return mandatedomain.StatusDeclined
	case "", "pending", "sent":
		return mandatedomain.StatusPending
	default:
		return mandatedomain.StatusFailed
	}
}
