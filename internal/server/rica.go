package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	ricadomain "github.com/jdeweedata/circletel-sub013/internal/rica/domain"
)

type submitRicaRequest struct {
	ContractID int64  `json:"contract_id"`
	TrackingID string `json:"tracking_id"`
	IDNumber   string `json:"id_number,omitempty"`
}

type updateRicaStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// @Summary      Submit RICA
// @Description  Record a RICA compliance submission for a contract
// @Tags         rica
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body submitRicaRequest true "Submit RICA Request"
// @Success      200  {object}  ricadomain.Submission
// @Router       /rica/submissions [post]
func (s *Server) SubmitRica(c *gin.Context) {
	var req submitRicaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	submission, err := s.ricaSvc.Submit(
		c.Request.Context(),
		snowflake.ID(req.ContractID),
		strings.TrimSpace(req.TrackingID),
		strings.TrimSpace(req.IDNumber),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": submission})
}

// @Summary      Update RICA Status
// @Description  Move a submission through pending/submitted/approved/rejected
// @Tags         rica
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        trackingID path string true "Tracking id"
// @Param        request body updateRicaStatusRequest true "Update Status Request"
// @Success      200  {object}  ricadomain.Submission
// @Router       /rica/submissions/{trackingID}/status [post]
func (s *Server) UpdateRicaStatus(c *gin.Context) {
	var req updateRicaStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	submission, err := s.ricaSvc.UpdateStatus(
		c.Request.Context(),
		c.Param("trackingID"),
		ricadomain.SubmissionStatus(strings.TrimSpace(req.Status)),
		strings.TrimSpace(req.Reason),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": submission})
}
