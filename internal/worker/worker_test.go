package worker

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/events"
	notificationdomain "github.com/jdeweedata/circletel-sub013/internal/notification/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func TestDispatchOrderActivatedSendsEmailAndNotification(t *testing.T) {
	w, notifications, mailer := setupWorker()

	w.dispatch(context.Background(), events.OutboxRow{
		EventType: events.EventOrderActivated,
		Payload: datatypes.JSONMap{
			"order_ref":      "ORD-5001",
			"customer_name":  "Sipho Ndlovu",
			"customer_email": "sipho@example.com",
			"package_name":   "Fibre 200/100",
		},
	})

	if len(notifications.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications.created))
	}
	created := notifications.created[0]
	if created.UserID != "sipho@example.com" {
		t.Fatalf("unexpected user id %q", created.UserID)
	}
	if created.Type != string(notificationdomain.TypeOrderUpdate) {
		t.Fatalf("unexpected type %q", created.Type)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	if mailer.sent[0].to != "sipho@example.com" {
		t.Fatalf("unexpected recipient %q", mailer.sent[0].to)
	}
}

func TestDispatchPaymentReceivedWithoutEmailSkipsSend(t *testing.T) {
	w, notifications, mailer := setupWorker()

	w.dispatch(context.Background(), events.OutboxRow{
		EventType: events.EventPaymentReceived,
		Payload: datatypes.JSONMap{
			"reference": "INV-8001",
			"amount":    float64(49900),
			"currency":  "ZAR",
		},
	})

	if len(mailer.sent) != 0 {
		t.Fatalf("expected no email without payer address, got %d", len(mailer.sent))
	}
	if len(notifications.created) != 0 {
		t.Fatalf("expected no notification without addressee, got %d", len(notifications.created))
	}
}

func TestDispatchMandateDeclinedAlertsAdmin(t *testing.T) {
	w, notifications, _ := setupWorker()

	w.dispatch(context.Background(), events.OutboxRow{
		EventType: events.EventMandateDeclined,
		Payload:   datatypes.JSONMap{"mandate_ref": "MAN-42"},
	})

	if notifications.alerts != 1 {
		t.Fatalf("expected admin alert, got %d", notifications.alerts)
	}
}

func TestFormatAmount(t *testing.T) {
	got := formatAmount(datatypes.JSONMap{"amount": float64(49900), "currency": "ZAR"})
	if got != "ZAR 499.00" {
		t.Fatalf("unexpected amount %q", got)
	}
	got = formatAmount(datatypes.JSONMap{"amount": float64(105)})
	if got != "ZAR 1.05" {
		t.Fatalf("unexpected amount %q", got)
	}
}

func setupWorker() (*Worker, *captureNotifications, *captureMailer) {
	notifications := &captureNotifications{}
	mailer := &captureMailer{}
	return &Worker{
		log:           zap.NewNop(),
		notifications: notifications,
		mailer:        mailer,
		batchSize:     10,
	}, notifications, mailer
}

type captureNotifications struct {
	created []notificationdomain.CreateRequest
	alerts  int
}

func (c *captureNotifications) Create(_ context.Context, req notificationdomain.CreateRequest) (*notificationdomain.Notification, error) {
	c.created = append(c.created, req)
	return &notificationdomain.Notification{}, nil
}

func (c *captureNotifications) List(context.Context, notificationdomain.ListRequest) ([]*notificationdomain.Notification, error) {
	return nil, nil
}

func (c *captureNotifications) MarkRead(context.Context, snowflake.ID) (*notificationdomain.Notification, error) {
	return nil, nil
}

func (c *captureNotifications) Dismiss(context.Context, snowflake.ID) (*notificationdomain.Notification, error) {
	return nil, nil
}

func (c *captureNotifications) AdminAlert(context.Context, string, string, map[string]any) {
	c.alerts++
}

type sentMail struct {
	to      string
	subject string
}

type captureMailer struct {
	sent []sentMail
}

func (c *captureMailer) Send(to string, subject string, _ string) error {
	c.sent = append(c.sent, sentMail{to: to, subject: subject})
	return nil
}
