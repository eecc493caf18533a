package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EmandateNotify receives the NetCash eMandate notify callback. The
// payload is form-encoded, not JSON, and the endpoint always answers 200:
// NetCash floods retries on anything else, so failures are logged and the
// row is reconciled manually.
func (s *Server) EmandateNotify(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		s.log.Warn("emandate form parse failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "error"})
		return
	}

	result, err := s.mandateSvc.HandleNotify(
		c.Request.Context(),
		c.Request.PostForm,
		c.GetHeader("X-Netcash-Service-Key"),
	)
	if err != nil {
		s.log.Warn("emandate notify failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"mandate_ref": result.MandateRef,
	})
}
