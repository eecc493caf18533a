package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

// PaymentWebhook ingests one provider delivery. Provider-facing by
// contract: the response is always 200 so the provider never retries, and
// failures are logged server-side instead of surfaced.
func (s *Server) PaymentWebhook(c *gin.Context) {
	provider := c.Param("provider")

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		s.log.Error("webhook body read failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"status": "error"})
		return
	}

	err = s.paymentSvc.IngestWebhook(c.Request.Context(), provider, payload, c.Request.Header)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	case errors.Is(err, paymentdomain.ErrEventAlreadyProcessed):
		c.JSON(http.StatusOK, gin.H{"message": "Webhook already processed"})
	case errors.Is(err, paymentdomain.ErrProviderNotFound):
		AbortWithError(c, err)
	case errors.Is(err, paymentdomain.ErrEventIgnored):
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	default:
		s.log.Warn("webhook processing failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		c.JSON(http.StatusOK, gin.H{"status": "error"})
	}
}

// PaymentsHealth reports webhook readiness per provider. healthy means all
// providers hold usable credentials, degraded a strict subset, unhealthy
// none.
func (s *Server) PaymentsHealth(c *gin.Context) {
	providers := s.paymentSvc.Providers()

	healthy := 0
	detail := make(map[string]string, len(providers))
	for _, provider := range providers {
		if s.paymentSvc.ProviderConfigured(provider) {
			detail[provider] = "available"
			healthy++
		} else {
			detail[provider] = "unconfigured"
		}
	}

	status := "degraded"
	switch healthy {
	case len(providers):
		status = "healthy"
	case 0:
		status = "unhealthy"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"providers": detail,
		"summary": gin.H{
			"total_providers":   len(providers),
			"healthy_providers": healthy,
		},
	})
}
