package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	notificationdomain "github.com/jdeweedata/circletel-sub013/internal/notification/domain"
)

type createNotificationRequest struct {
	UserID   string         `json:"user_id"`
	Type     string         `json:"type,omitempty"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// @Summary      Create Notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body createNotificationRequest true "Create Notification Request"
// @Success      201  {object}  notificationdomain.Notification
// @Router       /notifications [post]
func (s *Server) CreateNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	notification, err := s.notificationSvc.Create(c.Request.Context(), notificationdomain.CreateRequest{
		UserID:   strings.TrimSpace(req.UserID),
		Type:     strings.TrimSpace(req.Type),
		Title:    req.Title,
		Message:  req.Message,
		Metadata: req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": notification})
}

// @Summary      List Notifications
// @Tags         notifications
// @Produce      json
// @Security     ApiKeyAuth
// @Param        user_id     query  string true  "User id"
// @Param        unread_only query  bool   false "Unread only"
// @Success      200  {object}  []notificationdomain.Notification
// @Router       /notifications [get]
func (s *Server) ListNotifications(c *gin.Context) {
	var query struct {
		UserID     string `form:"user_id"`
		UnreadOnly bool   `form:"unread_only"`
		Limit      int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	notifications, err := s.notificationSvc.List(c.Request.Context(), notificationdomain.ListRequest{
		UserID:     strings.TrimSpace(query.UserID),
		UnreadOnly: query.UnreadOnly,
		Limit:      query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// @Summary      Mark Notification Read
// @Tags         notifications
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id path string true "Notification id"
// @Success      200  {object}  notificationdomain.Notification
// @Router       /notifications/{id}/read [post]
func (s *Server) MarkNotificationRead(c *gin.Context) {
	id, ok := parseNotificationID(c)
	if !ok {
		return
	}

	notification, err := s.notificationSvc.MarkRead(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notification})
}

// @Summary      Dismiss Notification
// @Tags         notifications
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id path string true "Notification id"
// @Success      200  {object}  notificationdomain.Notification
// @Router       /notifications/{id}/dismiss [post]
func (s *Server) DismissNotification(c *gin.Context) {
	id, ok := parseNotificationID(c)
	if !ok {
		return
	}

	notification, err := s.notificationSvc.Dismiss(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notification})
}

func parseNotificationID(c *gin.Context) (snowflake.ID, bool) {
	raw, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || raw <= 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid notification id"))
		return 0, false
	}
	return snowflake.ID(raw), true
}
