package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	"github.com/jdeweedata/circletel-sub013/internal/mail"
	portaldomain "github.com/jdeweedata/circletel-sub013/internal/portal/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   portaldomain.Repository
	Mailer mail.Mailer
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	repo   portaldomain.Repository
	mailer mail.Mailer
}

func NewService(p Params) portaldomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("portal.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		repo:   p.Repo,
		mailer: p.Mailer,
	}
}

func (s *Service) EnsureAccount(ctx context.Context, req portaldomain.EnsureAccountRequest) (*portaldomain.EnsureAccountResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, portaldomain.ErrInvalidEmail
	}
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return nil, portaldomain.ErrInvalidName
	}

	existing, err := s.findByEmail(ctx, email)
	if err != nil && err != portaldomain.ErrAccountNotFound {
		return nil, err
	}
	if existing != nil {
		return &portaldomain.EnsureAccountResult{Account: existing, Created: false}, nil
	}

	password, err := tempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &portaldomain.PortalAccount{
		ID:                 s.genID.Generate(),
		OrderID:            req.OrderID,
		Email:              email,
		FirstName:          firstName,
		LastName:           strings.TrimSpace(req.LastName),
		PasswordHash:       hash,
		MustChangePassword: true,
		Status:             string(portaldomain.StatusActive),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Insert(ctx, s.db, account); err != nil {
		return nil, err
	}

	subject, body := mail.WelcomeEmail(firstName, email, password)
	if err := s.mailer.Send(email, subject, body); err != nil {
		s.log.Error("welcome email failed", zap.String("email", email), zap.Error(err))
	}

	s.log.Info("portal account created", zap.String("email", email))
	return &portaldomain.EnsureAccountResult{
		Account:      account,
		Created:      true,
		TempPassword: password,
	}, nil
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*portaldomain.PortalAccount, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, portaldomain.ErrInvalidEmail
	}
	return s.findByEmail(ctx, email)
}

func (s *Service) VerifyPassword(ctx context.Context, email string, password string) (*portaldomain.PortalAccount, error) {
	account, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.Status != string(portaldomain.StatusActive) {
		return nil, portaldomain.ErrAccountNotFound
	}
	if !verifyPassword(password, account.PasswordHash) {
		return nil, portaldomain.ErrInvalidPassword
	}

	now := s.clock.Now()
	account.LastLoginAt = &now
	account.UpdatedAt = now
	if err := s.repo.Save(ctx, s.db, account); err != nil {
		s.log.Warn("last login update failed", zap.String("email", account.Email), zap.Error(err))
	}
	return account, nil
}

func (s *Service) ResetPassword(ctx context.Context, email string) (string, error) {
	account, err := s.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	password, err := tempPassword()
	if err != nil {
		return "", err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return "", err
	}

	now := s.clock.Now()
	account.PasswordHash = hash
	account.MustChangePassword = true
	account.PasswordRotatedAt = &now
	account.UpdatedAt = now
	if err := s.repo.Save(ctx, s.db, account); err != nil {
		return "", err
	}

	subject, body := mail.WelcomeEmail(account.FirstName, account.Email, password)
	if err := s.mailer.Send(account.Email, subject, body); err != nil {
		s.log.Error("reset email failed", zap.String("email", account.Email), zap.Error(err))
	}

	s.log.Info("portal password reset", zap.String("email", account.Email))
	return password, nil
}

func (s *Service) Suspend(ctx context.Context, email string) error {
	return s.setStatus(ctx, email, portaldomain.StatusSuspended)
}

func (s *Service) Reactivate(ctx context.Context, email string) error {
	return s.setStatus(ctx, email, portaldomain.StatusActive)
}

func (s *Service) setStatus(ctx context.Context, email string, status portaldomain.AccountStatus) error {
	account, err := s.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	account.Status = string(status)
	account.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, s.db, account); err != nil {
		return err
	}

	s.log.Info("portal account status changed",
		zap.String("email", account.Email),
		zap.String("status", account.Status),
	)
	return nil
}

// findByEmail walks the full account list and compares emails
// case-insensitively, matching the upstream portal behavior.
func (s *Service) findByEmail(ctx context.Context, email string) (*portaldomain.PortalAccount, error) {
	accounts, err := s.repo.ListAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return nil, portaldomain.ErrAccountNotFound
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
