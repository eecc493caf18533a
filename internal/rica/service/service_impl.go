package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	"github.com/jdeweedata/circletel-sub013/internal/config"
	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	ricadomain "github.com/jdeweedata/circletel-sub013/internal/rica/domain"
	"github.com/pkg/errors"
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
	Repo   ricadomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    ricadomain.Repository
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewService(p Params) ricadomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("rica.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		baseURL: strings.TrimRight(p.Config.InternalAPIBaseURL, "/"),
		apiKey:  strings.TrimSpace(p.Config.InternalAPIKey),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Service) Submit(ctx context.Context, contractID snowflake.ID, trackingID string, idNumber string) (*ricadomain.Submission, error) {
	if contractID == 0 {
		return nil, ricadomain.ErrInvalidContract
	}
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, ricadomain.ErrInvalidTrackingID
	}

	now := s.clock.Now()
	submission := &ricadomain.Submission{
		ID:         s.genID.Generate(),
		ContractID: contractID,
		TrackingID: trackingID,
		Status:     string(ricadomain.StatusPending),
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if idNumber = strings.TrimSpace(idNumber); idNumber != "" {
		submission.IDNumber = &idNumber
	}

	if err := s.repo.Insert(ctx, s.db, submission); err != nil {
		return nil, err
	}

	s.log.Info("rica submission recorded",
		zap.String("tracking_id", trackingID),
		zap.Int64("contract_id", contractID.Int64()),
	)
	return submission, nil
}

func (s *Service) UpdateStatus(ctx context.Context, trackingID string, status ricadomain.SubmissionStatus, reason string) (*ricadomain.Submission, error) {
	if !ricadomain.ValidSubmissionStatus(string(status)) {
		return nil, ricadomain.ErrInvalidStatus
	}

	submission, err := s.repo.FindByTrackingID(ctx, s.db, trackingID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	submission.Status = string(status)
	submission.UpdatedAt = now
	if reason = strings.TrimSpace(reason); reason != "" {
		submission.Reason = &reason
	}
	switch status {
	case ricadomain.StatusSubmitted:
		submission.SubmittedAt = &now
	case ricadomain.StatusApproved, ricadomain.StatusRejected:
		submission.ReviewedAt = &now
	}

	if err := s.repo.Save(ctx, s.db, submission); err != nil {
		return nil, err
	}

	s.log.Info("rica submission updated",
		zap.String("tracking_id", submission.TrackingID),
		zap.String("status", submission.Status),
	)

	if status == ricadomain.StatusApproved {
		s.triggerIfInstallable(ctx, submission.ContractID)
	}
	return submission, nil
}

// triggerIfInstallable fires the activation hand-off for a freshly approved
// contract whose order has already finished installation. Approval arriving
// earlier in the lifecycle is picked up again when installation completes.
func (s *Service) triggerIfInstallable(ctx context.Context, contractID snowflake.ID) {
	var row struct {
		OrderRef string `gorm:"column:order_ref"`
		Status   string `gorm:"column:status"`
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT o.order_ref, o.status
		 FROM consumer_orders o
		 JOIN contracts c ON c.order_id = o.id
		 WHERE c.id = ?
		 LIMIT 1`,
		contractID,
	).Scan(&row).Error
	if err != nil {
		s.log.Error("order lookup for activation trigger failed",
			zap.Int64("contract_id", contractID.Int64()),
			zap.Error(err),
		)
		return
	}
	if row.OrderRef == "" || row.Status != string(orderdomain.OrderStatusInstallationCompleted) {
		return
	}
	if err := s.TriggerActivation(ctx, row.OrderRef); err != nil {
		s.log.Error("activation trigger after approval failed",
			zap.String("order_ref", row.OrderRef),
			zap.Error(err),
		)
	}
}

func (s *Service) ApprovedForContract(ctx context.Context, contractID snowflake.ID) (bool, error) {
	if contractID == 0 {
		return false, ricadomain.ErrInvalidContract
	}
	count, err := s.repo.CountApproved(ctx, s.db, contractID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) TriggerActivation(ctx context.Context, orderRef string) error {
	orderRef = strings.TrimSpace(orderRef)
	if orderRef == "" {
		return errors.New("missing_order_ref")
	}
	if s.baseURL == "" {
		s.log.Warn("activation trigger skipped: internal api base url not configured",
			zap.String("order_ref", orderRef))
		return nil
	}
	if s.apiKey == "" {
		s.log.Warn("activation trigger skipped: internal api key not configured",
			zap.String("order_ref", orderRef))
		return nil
	}

	url := fmt.Sprintf("%s/api/orders/%s/activate", s.baseURL, orderRef)
	body, _ := json.Marshal(map[string]string{"source": "rica"})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build activation request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("activation trigger failed",
			zap.String("order_ref", orderRef),
			zap.Error(err),
		)
		return errors.Wrap(err, "call activation endpoint")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= http.StatusBadRequest {
		s.log.Warn("activation trigger rejected",
			zap.String("order_ref", orderRef),
			zap.Int("status", resp.StatusCode),
		)
		return errors.Errorf("activation endpoint returned %d", resp.StatusCode)
	}

	s.log.Info("activation triggered", zap.String("order_ref", orderRef))
	return nil
}
