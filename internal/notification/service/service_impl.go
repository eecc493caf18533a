package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	"github.com/jdeweedata/circletel-sub013/internal/config"
	"github.com/jdeweedata/circletel-sub013/internal/mail"
	notificationdomain "github.com/jdeweedata/circletel-sub013/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminUserID is the synthetic user id addressing admin-audience
// notifications.
const AdminUserID = "admin"

type Params struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   notificationdomain.Repository
	Mailer mail.Mailer
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       notificationdomain.Repository
	mailer     mail.Mailer
	adminEmail string
}

func NewService(p Params) notificationdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("notification.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		mailer:     p.Mailer,
		adminEmail: strings.TrimSpace(p.Config.AdminEmail),
	}
}

func (s *Service) Create(ctx context.Context, req notificationdomain.CreateRequest) (*notificationdomain.Notification, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, notificationdomain.ErrInvalidUser
	}
	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = string(notificationdomain.TypeSystem)
	}
	if !notificationdomain.ValidType(kind) {
		return nil, notificationdomain.ErrInvalidType
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, notificationdomain.ErrInvalidTitle
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, notificationdomain.ErrInvalidMessage
	}

	notification := &notificationdomain.Notification{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: s.clock.Now(),
	}
	for key, value := range req.Metadata {
		if strings.TrimSpace(key) == "" {
			continue
		}
		notification.Metadata[key] = value
	}

	if err := s.repo.Insert(ctx, s.db, notification); err != nil {
		return nil, err
	}

	s.log.Debug("notification created",
		zap.String("user_id", userID),
		zap.String("type", kind),
	)
	return notification, nil
}

func (s *Service) List(ctx context.Context, req notificationdomain.ListRequest) ([]*notificationdomain.Notification, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, notificationdomain.ErrInvalidUser
	}
	return s.repo.List(ctx, s.db, req)
}

func (s *Service) MarkRead(ctx context.Context, id snowflake.ID) (*notificationdomain.Notification, error) {
	notification, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if notification.Read {
		return notification, nil
	}

	now := s.clock.Now()
	notification.Read = true
	notification.ReadAt = &now
	if err := s.repo.Save(ctx, s.db, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *Service) Dismiss(ctx context.Context, id snowflake.ID) (*notificationdomain.Notification, error) {
	notification, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if notification.Dismissed {
		return notification, nil
	}

	now := s.clock.Now()
	notification.Dismissed = true
	notification.DismissedAt = &now
	if err := s.repo.Save(ctx, s.db, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *Service) AdminAlert(ctx context.Context, action string, detail string, metadata map[string]any) {
	_, err := s.Create(ctx, notificationdomain.CreateRequest{
		UserID:   AdminUserID,
		Type:     string(notificationdomain.TypeAdminAlert),
		Title:    action,
		Message:  detail,
		Metadata: metadata,
	})
	if err != nil {
		s.log.Error("admin alert notification failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}

	if s.adminEmail == "" {
		return
	}
	subject, body := mail.AdminAlertEmail(action, detail)
	if err := s.mailer.Send(s.adminEmail, subject, body); err != nil {
		s.log.Error("admin alert email failed",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
