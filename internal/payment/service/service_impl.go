package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/jdeweedata/circletel-sub013/internal/audit/domain"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	contractdomain "github.com/jdeweedata/circletel-sub013/internal/contract/domain"
	"github.com/jdeweedata/circletel-sub013/internal/events"
	invoicedomain "github.com/jdeweedata/circletel-sub013/internal/invoice/domain"
	ledgerdomain "github.com/jdeweedata/circletel-sub013/internal/ledger/domain"
	ledgerservice "github.com/jdeweedata/circletel-sub013/internal/ledger/service"
	notificationdomain "github.com/jdeweedata/circletel-sub013/internal/notification/domain"
	"github.com/jdeweedata/circletel-sub013/internal/observability/metrics"
	"github.com/jdeweedata/circletel-sub013/internal/payment/adapters"
	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
	"github.com/jdeweedata/circletel-sub013/internal/sla"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Repo          paymentdomain.Repository
	Registry      *adapters.Registry
	Invoices      invoicedomain.Service
	Contracts     contractdomain.Service
	Ledger        ledgerdomain.Service
	Outbox        *events.Outbox
	Audit         auditdomain.Service
	Notifications notificationdomain.Service
	Sla           *sla.Tracker
	Metrics       *metrics.HTTPMetrics
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	repo          paymentdomain.Repository
	registry      *adapters.Registry
	invoices      invoicedomain.Service
	contracts     contractdomain.Service
	ledger        ledgerdomain.Service
	outbox        *events.Outbox
	audit         auditdomain.Service
	notifications notificationdomain.Service
	sla           *sla.Tracker
	metrics       *metrics.HTTPMetrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("payment.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		repo:          p.Repo,
		registry:      p.Registry,
		invoices:      p.Invoices,
		contracts:     p.Contracts,
		ledger:        p.Ledger,
		outbox:        p.Outbox,
		audit:         p.Audit,
		notifications: p.Notifications,
		sla:           p.Sla,
		metrics:       p.Metrics,
	}
}

// IngestWebhook runs the full pipeline for one provider delivery. The
// unique transaction_id insert is the only interlock: everything after it
// is best effort so the provider always gets its 200 and never retries a
// delivery we have already recorded.
func (s *Service) IngestWebhook(ctx context.Context, provider string, payload []byte, headers http.Header) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return paymentdomain.ErrInvalidProvider
	}

	adapter, err := s.registry.NewAdapter(provider)
	if err != nil {
		s.recordOutcome(ctx, provider, "rejected")
		return err
	}

	if err := adapter.Verify(ctx, payload, headers); err != nil {
		s.log.Warn("webhook signature rejected",
			zap.String("provider", provider),
			zap.Error(err),
		)
		s.recordOutcome(ctx, provider, "invalid_signature")
		return paymentdomain.ErrInvalidSignature
	}

	event, err := adapter.Parse(ctx, payload)
	if err != nil {
		if err == paymentdomain.ErrEventIgnored {
			s.recordOutcome(ctx, provider, "ignored")
		} else {
			s.recordOutcome(ctx, provider, "invalid_payload")
		}
		return err
	}
	if err := validateEvent(event); err != nil {
		s.recordOutcome(ctx, provider, "invalid_event")
		return err
	}

	row := &paymentdomain.WebhookEvent{
		ID:            s.genID.Generate(),
		Provider:      provider,
		TransactionID: event.TransactionID,
		EventType:     event.Type,
		Reference:     event.Reference,
		Payload:       payload,
		ReceivedAt:    s.clock.Now(),
	}
	inserted, err := s.repo.InsertEvent(ctx, s.db, row)
	if err != nil {
		return err
	}
	if !inserted {
		s.log.Info("duplicate webhook short-circuited",
			zap.String("provider", provider),
			zap.String("transaction_id", event.TransactionID),
		)
		s.recordOutcome(ctx, provider, "duplicate")
		return paymentdomain.ErrEventAlreadyProcessed
	}

	switch event.Type {
	case paymentdomain.EventTypePaymentSucceeded:
		s.processSucceeded(ctx, event)
	case paymentdomain.EventTypePaymentFailed:
		s.processFailed(ctx, event)
	case paymentdomain.EventTypeRefunded:
		s.processRefund(ctx, event)
	}

	if err := s.repo.MarkProcessed(ctx, s.db, row.ID, s.clock.Now()); err != nil {
		s.log.Error("mark processed failed",
			zap.String("transaction_id", event.TransactionID),
			zap.Error(err),
		)
	}

	s.recordOutcome(ctx, provider, "processed")
	return nil
}

func (s *Service) ProviderConfigured(provider string) bool {
	return s.registry.Configured(provider)
}

func (s *Service) Providers() []string {
	return s.registry.Providers()
}

// processSucceeded settles the invoice, materializes the order when a B2B
// contract is behind it and posts the ledger entry. The RICA activation
// hand-off happens later, once installation is complete. Every step past
// the transaction insert logs and continues on failure.
func (s *Service) processSucceeded(ctx context.Context, event *paymentdomain.PaymentEvent) {
	txn := &paymentdomain.PaymentTransaction{
		ID:            s.genID.Generate(),
		TransactionID: event.TransactionID,
		Provider:      event.Provider,
		Reference:     event.Reference,
		Amount:        event.Amount,
		Currency:      event.Currency,
		Status:        "succeeded",
		OccurredAt:    event.OccurredAt,
		CreatedAt:     s.clock.Now(),
	}
	if _, err := s.repo.InsertTransaction(ctx, s.db, txn); err != nil {
		s.log.Error("transaction insert failed",
			zap.String("transaction_id", event.TransactionID),
			zap.Error(err),
		)
	}

	settlement, err := s.invoices.ApplyPayment(ctx, event.Reference, event.Amount, event.TransactionID)
	if err != nil {
		if err == invoicedomain.ErrInvoiceNotFound {
			s.log.Warn("payment has no matching invoice",
				zap.String("transaction_id", event.TransactionID),
				zap.String("reference", event.Reference),
			)
		} else {
			s.log.Error("invoice settlement failed",
				zap.String("transaction_id", event.TransactionID),
				zap.Error(err),
			)
		}
	}

	if settlement != nil && settlement.Kind == invoicedomain.SettlementKindBusiness && settlement.FullyPaid {
		s.materializeOrder(ctx, event, settlement)
	}

	s.postLedgerEntry(ctx, event, false)
	s.publishPaymentEvent(ctx, events.EventPaymentReceived, event)
	s.writeAudit(ctx, "payment.settled", event)
}

func (s *Service) processFailed(ctx context.Context, event *paymentdomain.PaymentEvent) {
	if event.Reference != "" {
		if err := s.invoices.MarkFailed(ctx, event.Reference); err != nil && err != invoicedomain.ErrInvoiceNotFound {
			s.log.Error("mark invoice failed errored",
				zap.String("reference", event.Reference),
				zap.Error(err),
			)
		}
	}
	s.publishPaymentEvent(ctx, events.EventPaymentFailed, event)
	s.writeAudit(ctx, "payment.failed", event)
}

func (s *Service) processRefund(ctx context.Context, event *paymentdomain.PaymentEvent) {
	if event.Reference != "" {
		if err := s.invoices.ApplyRefund(ctx, event.Reference, event.Amount); err != nil && err != invoicedomain.ErrInvoiceNotFound {
			s.log.Error("refund application failed",
				zap.String("reference", event.Reference),
				zap.Error(err),
			)
		}
	}
	s.postLedgerEntry(ctx, event, true)
	s.writeAudit(ctx, "payment.refunded", event)
}

// materializeOrder swallows failure on purpose: the provider already has
// its 200 and must not retry. The audit row and admin alert keep the
// stranded invoice visible for manual remediation.
func (s *Service) materializeOrder(ctx context.Context, event *paymentdomain.PaymentEvent, settlement *invoicedomain.Settlement) {
	order, err := s.contracts.MaterializeOrder(ctx, settlement.ContractID, event.TransactionID)
	if err != nil {
		s.log.Error("order auto-creation failed",
			zap.Int64("contract_id", settlement.ContractID),
			zap.String("transaction_id", event.TransactionID),
			zap.Error(err),
		)
		targetID := event.TransactionID
		auditErr := s.audit.AuditLog(ctx, auditdomain.ActorTypeSystem, "payment-pipeline",
			"order.auto_creation_failed", "contract", &targetID,
			map[string]any{
				"contract_id": settlement.ContractID,
				"invoice_ref": settlement.InvoiceRef,
				"error":       err.Error(),
			})
		if auditErr != nil {
			s.log.Error("audit write failed", zap.Error(auditErr))
		}
		s.notifications.AdminAlert(ctx,
			"Order auto-creation failed",
			"A paid invoice has no materialized order. Invoice "+settlement.InvoiceRef+" needs manual follow-up.",
			map[string]any{
				"contract_id":    settlement.ContractID,
				"invoice_ref":    settlement.InvoiceRef,
				"transaction_id": event.TransactionID,
			})
		return
	}

	if s.sla != nil {
		if slaErr := s.sla.RecordMilestone(ctx, order.ID, sla.MilestonePaymentReceived); slaErr != nil {
			s.log.Error("sla milestone failed",
				zap.String("order_ref", order.OrderRef),
				zap.Error(slaErr),
			)
		}
	}

	publishErr := s.outbox.Publish(ctx, events.Event{
		Type: events.EventOrderCreated,
		Payload: events.OrderPayload{
			OrderRef:      order.OrderRef,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			PackageName:   order.PackageName,
		}.ToMap(),
		DedupeKey: events.EventOrderCreated + ":" + order.OrderRef,
	})
	if publishErr != nil {
		s.log.Error("order created event publish failed",
			zap.String("order_ref", order.OrderRef),
			zap.Error(publishErr),
		)
	}

}

func (s *Service) postLedgerEntry(ctx context.Context, event *paymentdomain.PaymentEvent, refund bool) {
	cashID, err := ledgerservice.EnsureAccount(ctx, s.db, s.genID, ledgerdomain.AccountCodeCashClearing, "Cash Clearing")
	if err != nil {
		s.log.Error("ledger account lookup failed", zap.Error(err))
		return
	}
	receivableID, err := ledgerservice.EnsureAccount(ctx, s.db, s.genID, ledgerdomain.AccountCodeAccountsReceivable, "Accounts Receivable")
	if err != nil {
		s.log.Error("ledger account lookup failed", zap.Error(err))
		return
	}

	sourceType := ledgerdomain.SourceTypePaymentEvent
	debitAccount, creditAccount := cashID, receivableID
	if refund {
		sourceType = ledgerdomain.SourceTypeRefund
		debitAccount, creditAccount = receivableID, cashID
	}

	lines := []ledgerdomain.EntryLine{
		{AccountID: debitAccount, Direction: ledgerdomain.EntryDirectionDebit, Amount: event.Amount},
		{AccountID: creditAccount, Direction: ledgerdomain.EntryDirectionCredit, Amount: event.Amount},
	}
	if err := s.ledger.CreateEntry(ctx, sourceType, s.genID.Generate(), event.Currency, event.OccurredAt, lines); err != nil {
		s.log.Error("ledger entry failed",
			zap.String("transaction_id", event.TransactionID),
			zap.Error(err),
		)
	}
}

func (s *Service) publishPaymentEvent(ctx context.Context, eventType string, event *paymentdomain.PaymentEvent) {
	err := s.outbox.Publish(ctx, events.Event{
		Type: eventType,
		Payload: events.PaymentPayload{
			TransactionID: event.TransactionID,
			Provider:      event.Provider,
			Reference:     event.Reference,
			Amount:        event.Amount,
			Currency:      event.Currency,
			PayerEmail:    event.PayerEmail,
		}.ToMap(),
		DedupeKey: eventType + ":" + event.TransactionID,
	})
	if err != nil {
		s.log.Error("payment event publish failed",
			zap.String("transaction_id", event.TransactionID),
			zap.Error(err),
		)
	}
}

func (s *Service) writeAudit(ctx context.Context, action string, event *paymentdomain.PaymentEvent) {
	targetID := event.TransactionID
	err := s.audit.AuditLog(ctx, auditdomain.ActorTypeSystem, "payment-pipeline",
		action, "payment_transaction", &targetID,
		map[string]any{
			"provider":  event.Provider,
			"reference": event.Reference,
			"amount":    event.Amount,
			"currency":  event.Currency,
		})
	if err != nil {
		s.log.Error("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *Service) recordOutcome(ctx context.Context, provider, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordWebhookEvent(ctx, provider, outcome)
}

func validateEvent(event *paymentdomain.PaymentEvent) error {
	if event == nil || strings.TrimSpace(event.TransactionID) == "" {
		return paymentdomain.ErrInvalidEvent
	}
	switch event.Type {
	case paymentdomain.EventTypePaymentSucceeded, paymentdomain.EventTypePaymentFailed, paymentdomain.EventTypeRefunded:
	default:
		return paymentdomain.ErrInvalidEvent
	}
	if event.Type != paymentdomain.EventTypePaymentFailed && event.Amount <= 0 {
		return paymentdomain.ErrInvalidAmount
	}
	if strings.TrimSpace(event.Currency) == "" {
		return paymentdomain.ErrInvalidCurrency
	}
	return nil
}
