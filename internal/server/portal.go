package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Get Portal Account
// @Tags         portal
// @Produce      json
// @Security     ApiKeyAuth
// @Param        email path string true "Account email"
// @Success      200  {object}  portaldomain.PortalAccount
// @Router       /portal/accounts/{email} [get]
func (s *Server) GetPortalAccount(c *gin.Context) {
	account, err := s.portalSvc.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// The hash never leaves the service boundary.
	account.PasswordHash = ""
	c.JSON(http.StatusOK, gin.H{"data": account})
}

// @Summary      Reset Portal Password
// @Description  Issue a fresh temporary password and email it to the account
// @Tags         portal
// @Produce      json
// @Security     ApiKeyAuth
// @Param        email path string true "Account email"
// @Success      200  {object}  map[string]string
// @Router       /portal/accounts/{email}/reset-password [post]
func (s *Server) ResetPortalPassword(c *gin.Context) {
	if _, err := s.portalSvc.ResetPassword(c.Request.Context(), c.Param("email")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password_reset"})
}

// @Summary      Suspend Portal Account
// @Tags         portal
// @Produce      json
// @Security     ApiKeyAuth
// @Param        email path string true "Account email"
// @Success      200  {object}  map[string]string
// @Router       /portal/accounts/{email}/suspend [post]
func (s *Server) SuspendPortalAccount(c *gin.Context) {
	if err := s.portalSvc.Suspend(c.Request.Context(), c.Param("email")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "suspended"})
}

// @Summary      Reactivate Portal Account
// @Tags         portal
// @Produce      json
// @Security     ApiKeyAuth
// @Param        email path string true "Account email"
// @Success      200  {object}  map[string]string
// @Router       /portal/accounts/{email}/reactivate [post]
func (s *Server) ReactivatePortalAccount(c *gin.Context) {
	if err := s.portalSvc.Reactivate(c.Request.Context(), c.Param("email")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "active"})
}
