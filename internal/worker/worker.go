package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jdeweedata/circletel-sub013/internal/config"
	"github.com/jdeweedata/circletel-sub013/internal/events"
	"github.com/jdeweedata/circletel-sub013/internal/mail"
	notificationdomain "github.com/jdeweedata/circletel-sub013/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config        config.Config
	DB            *gorm.DB
	Log           *zap.Logger
	Notifications notificationdomain.Service
	Mailer        mail.Mailer
}

// Worker drains the order_events outbox and fans events out to in-app
// notifications and email. Webhook handlers only ever write the outbox
// row, so provider responses never wait on a send.
type Worker struct {
	db            *gorm.DB
	log           *zap.Logger
	notifications notificationdomain.Service
	mailer        mail.Mailer
	pollInterval  time.Duration
	batchSize     int
}

func NewWorker(p Params) *Worker {
	pollInterval := p.Config.OutboxPollInterval
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	batchSize := p.Config.OutboxBatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Worker{
		db:            p.DB,
		log:           p.Log.Named("events.dispatch"),
		notifications: p.Notifications,
		mailer:        p.Mailer,
		pollInterval:  pollInterval,
		batchSize:     batchSize,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("outbox dispatch run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce locks one batch of unpublished events, dispatches each and marks
// it published within the same transaction.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	if w.db == nil || w.notifications == nil {
		return 0, errors.New("dispatch_worker_unavailable")
	}

	processed := 0
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := w.lockUnpublished(ctx, tx, w.batchSize)
		if err != nil {
			return err
		}
		for _, row := range rows {
			w.dispatch(ctx, row)
			if err := tx.WithContext(ctx).Exec(
				`UPDATE order_events SET published = true WHERE id = ?`,
				row.ID,
			).Error; err != nil {
				return err
			}
			processed++
		}
		return nil
	})
	return processed, err
}

func (w *Worker) lockUnpublished(ctx context.Context, tx *gorm.DB, limit int) ([]events.OutboxRow, error) {
	var rows []events.OutboxRow
	err := tx.WithContext(ctx).Raw(
		`SELECT id, event_type, payload, dedupe_key, published, created_at
		 FROM order_events
		 WHERE published = false
		 ORDER BY id
		 FOR UPDATE SKIP LOCKED
		 LIMIT ?`,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// dispatch is log-and-continue per event: a failed send must not wedge the
// batch, the event is still marked published and the failure is visible in
// logs.
func (w *Worker) dispatch(ctx context.Context, row events.OutboxRow) {
	switch row.EventType {
	case events.EventPaymentReceived:
		w.notifyPayment(ctx, row.Payload)
	case events.EventPaymentFailed:
		w.notify(ctx, notificationdomain.TypePayment, row.Payload,
			"Payment failed",
			"A payment attempt failed. Reference: "+stringField(row.Payload, "reference"))
	case events.EventOrderCreated:
		w.notifyOrderCreated(ctx, row.Payload)
	case events.EventOrderActivated:
		w.notifyOrderActivated(ctx, row.Payload)
	case events.EventInstallationScheduled:
		w.notify(ctx, notificationdomain.TypeInstallation, row.Payload,
			"Installation scheduled",
			"Installation for order "+stringField(row.Payload, "order_ref")+" has been scheduled.")
	case events.EventInstallationCompleted:
		w.notify(ctx, notificationdomain.TypeInstallation, row.Payload,
			"Installation completed",
			"Installation for order "+stringField(row.Payload, "order_ref")+" is complete.")
	case events.EventMandateSigned:
		w.notifyAdmin(ctx, "Debit order mandate signed",
			"Mandate "+stringField(row.Payload, "mandate_ref")+" was signed.", row.Payload)
	case events.EventMandateDeclined:
		w.notifyAdmin(ctx, "Debit order mandate declined",
			"Mandate "+stringField(row.Payload, "mandate_ref")+" was declined or failed.", row.Payload)
	case events.EventAdminAlert:
		w.notifyAdmin(ctx, stringField(row.Payload, "title"), stringField(row.Payload, "message"), row.Payload)
	default:
		w.log.Warn("unknown outbox event type", zap.String("event_type", row.EventType))
	}
}

func (w *Worker) notifyPayment(ctx context.Context, payload datatypes.JSONMap) {
	email := stringField(payload, "payer_email")
	reference := stringField(payload, "reference")

	w.notify(ctx, notificationdomain.TypePayment, payload,
		"Payment received",
		"We received your payment. Reference: "+reference)

	if email != "" {
		subject, body := mail.PaymentReceivedEmail("", reference, formatAmount(payload))
		if err := w.mailer.Send(email, subject, body); err != nil {
			w.log.Error("payment email failed", zap.String("email", email), zap.Error(err))
		}
	}
}

func (w *Worker) notifyOrderCreated(ctx context.Context, payload datatypes.JSONMap) {
	orderRef := stringField(payload, "order_ref")
	email := stringField(payload, "customer_email")

	w.notify(ctx, notificationdomain.TypeOrderUpdate, payload,
		"Order created",
		"Order "+orderRef+" was created from your paid invoice.")

	if email != "" {
		subject, body := mail.PaymentReceivedEmail(stringField(payload, "customer_name"), orderRef, "")
		if err := w.mailer.Send(email, subject, body); err != nil {
			w.log.Error("order created email failed", zap.String("email", email), zap.Error(err))
		}
	}
}

func (w *Worker) notifyOrderActivated(ctx context.Context, payload datatypes.JSONMap) {
	orderRef := stringField(payload, "order_ref")
	email := stringField(payload, "customer_email")

	w.notify(ctx, notificationdomain.TypeOrderUpdate, payload,
		"Service activated",
		"Your service on order "+orderRef+" is now active.")

	if email != "" {
		subject, body := mail.OrderActivatedEmail(
			stringField(payload, "customer_name"),
			orderRef,
			stringField(payload, "package_name"),
		)
		if err := w.mailer.Send(email, subject, body); err != nil {
			w.log.Error("activation email failed", zap.String("email", email), zap.Error(err))
		}
	}
}

func (w *Worker) notify(ctx context.Context, kind notificationdomain.Type, payload datatypes.JSONMap, title, message string) {
	userID := stringField(payload, "customer_email")
	if userID == "" {
		userID = stringField(payload, "payer_email")
	}
	if userID == "" {
		return
	}

	metadata := map[string]any(payload)
	if _, err := w.notifications.Create(ctx, notificationdomain.CreateRequest{
		UserID:   userID,
		Type:     string(kind),
		Title:    title,
		Message:  message,
		Metadata: metadata,
	}); err != nil {
		w.log.Error("notification create failed",
			zap.String("user_id", userID),
			zap.String("title", title),
			zap.Error(err),
		)
	}
}

func (w *Worker) notifyAdmin(ctx context.Context, title, message string, payload datatypes.JSONMap) {
	if title == "" {
		title = "Pipeline event"
	}
	w.notifications.AdminAlert(ctx, title, message, map[string]any(payload))
}

func stringField(payload datatypes.JSONMap, key string) string {
	if payload == nil {
		return ""
	}
	if value, ok := payload[key].(string); ok {
		return value
	}
	return ""
}

// formatAmount renders cents as "ZAR 499.00". JSON numbers decode to
// float64 in the payload map.
func formatAmount(payload datatypes.JSONMap) string {
	amount, ok := payload["amount"].(float64)
	if !ok {
		return ""
	}
	currency := stringField(payload, "currency")
	if currency == "" {
		currency = "ZAR"
	}
	cents := int64(amount)
	return fmt.Sprintf("%s %d.%02d", currency, cents/100, cents%100)
}
