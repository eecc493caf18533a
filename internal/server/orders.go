package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jdeweedata/circletel-sub013/internal/events"
	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	"github.com/jdeweedata/circletel-sub013/internal/sla"
)

type createOrderRequest struct {
	OrderRef       string `json:"order_ref"`
	ContractID     int64  `json:"contract_id,omitempty"`
	CustomerName   string `json:"customer_name"`
	CustomerEmail  string `json:"customer_email"`
	CustomerPhone  string `json:"customer_phone,omitempty"`
	PackageCode    string `json:"package_code"`
	PackageName    string `json:"package_name,omitempty"`
	MonthlyAmount  int64  `json:"monthly_amount"`
	Currency       string `json:"currency,omitempty"`
	InstallAddress string `json:"install_address,omitempty"`
	PaymentRef     string `json:"payment_ref,omitempty"`
}

type scheduleInstallationRequest struct {
	ScheduledFor string `json:"scheduled_for"`
}

// @Summary      Create Order
// @Description  Create a consumer order in payment_received status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body createOrderRequest true "Create Order Request"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders [post]
func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.orderSvc.Create(c.Request.Context(), orderdomain.CreateOrderRequest{
		OrderRef:       strings.TrimSpace(req.OrderRef),
		ContractID:     req.ContractID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerEmail:  strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
		PackageCode:    strings.TrimSpace(req.PackageCode),
		PackageName:    strings.TrimSpace(req.PackageName),
		MonthlyAmount:  req.MonthlyAmount,
		Currency:       strings.TrimSpace(req.Currency),
		InstallAddress: strings.TrimSpace(req.InstallAddress),
		PaymentRef:     strings.TrimSpace(req.PaymentRef),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// @Summary      List Orders
// @Description  List orders, newest first
// @Tags         orders
// @Produce      json
// @Security     ApiKeyAuth
// @Param        status     query  string false "Status"
// @Param        email      query  string false "Customer email"
// @Param        page_size  query  int    false "Page size"
// @Param        page_token query  string false "Page token"
// @Success      200  {object}  orderdomain.ListOrderResponse
// @Router       /orders [get]
func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		Status    string `form:"status"`
		Email     string `form:"email"`
		PageSize  int32  `form:"page_size"`
		PageToken string `form:"page_token"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := orderdomain.OrderStatus(strings.TrimSpace(query.Status))
	if status != "" && !orderdomain.ValidStatus(status) {
		AbortWithError(c, newValidationError("status", "invalid_status", "invalid order status"))
		return
	}

	resp, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListOrderRequest{
		PageToken: strings.TrimSpace(query.PageToken),
		PageSize:  query.PageSize,
		Status:    status,
		Email:     strings.TrimSpace(query.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Get Order
// @Tags         orders
// @Produce      json
// @Security     ApiKeyAuth
// @Param        orderRef path string true "Order reference"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{orderRef} [get]
func (s *Server) GetOrder(c *gin.Context) {
	order, err := s.orderSvc.GetByRef(c.Request.Context(), c.Param("orderRef"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

// @Summary      Schedule Installation
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        orderRef path string true "Order reference"
// @Param        request body scheduleInstallationRequest true "Schedule Request"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{orderRef}/schedule-installation [post]
func (s *Server) ScheduleInstallation(c *gin.Context) {
	var req scheduleInstallationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	scheduledFor, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledFor))
	if err != nil {
		AbortWithError(c, newValidationError("scheduled_for", "invalid_time", "scheduled_for must be RFC3339"))
		return
	}

	order, err := s.orderSvc.ScheduleInstallation(c.Request.Context(), c.Param("orderRef"), scheduledFor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordInstallationEvent(c.Request.Context(), order, sla.MilestoneInstallationScheduled, events.EventInstallationScheduled)

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// @Summary      Complete Installation
// @Tags         orders
// @Produce      json
// @Security     ApiKeyAuth
// @Param        orderRef path string true "Order reference"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{orderRef}/complete-installation [post]
func (s *Server) CompleteInstallation(c *gin.Context) {
	order, err := s.orderSvc.CompleteInstallation(c.Request.Context(), c.Param("orderRef"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordInstallationEvent(c.Request.Context(), order, sla.MilestoneInstallationCompleted, events.EventInstallationCompleted)
	s.triggerRicaActivation(c.Request.Context(), order)

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// triggerRicaActivation hands a freshly installed order off to the
// activation endpoint when its contract has already cleared RICA. Approval
// arriving later re-fires the same hand-off from the status update path.
func (s *Server) triggerRicaActivation(ctx context.Context, order *orderdomain.Order) {
	if order == nil || order.ContractID == nil || s.ricaSvc == nil {
		return
	}
	approved, err := s.ricaSvc.ApprovedForContract(ctx, *order.ContractID)
	if err != nil {
		s.log.Error("rica approval check failed",
			zap.String("order_ref", order.OrderRef),
			zap.Error(err),
		)
		return
	}
	if !approved {
		s.log.Info("activation deferred, rica not approved",
			zap.String("order_ref", order.OrderRef),
		)
		return
	}
	if err := s.ricaSvc.TriggerActivation(ctx, order.OrderRef); err != nil {
		s.log.Error("activation trigger failed",
			zap.String("order_ref", order.OrderRef),
			zap.Error(err),
		)
	}
}

// recordInstallationEvent stamps the SLA milestone and queues the outbox
// event for an installation transition. Failures are logged, not surfaced:
// the order transition itself already committed.
func (s *Server) recordInstallationEvent(ctx context.Context, order *orderdomain.Order, milestone sla.Milestone, eventType string) {
	if order == nil {
		return
	}
	if s.sla != nil {
		if err := s.sla.RecordMilestone(ctx, order.ID, milestone); err != nil {
			s.log.Error("sla milestone failed",
				zap.String("order_ref", order.OrderRef),
				zap.String("milestone", string(milestone)),
				zap.Error(err),
			)
		}
	}
	if s.outbox != nil {
		if err := s.outbox.Publish(ctx, events.Event{
			Type: eventType,
			Payload: events.OrderPayload{
				OrderRef:      order.OrderRef,
				CustomerName:  order.CustomerName,
				CustomerEmail: order.CustomerEmail,
				PackageName:   order.PackageName,
			}.ToMap(),
			DedupeKey: eventType + ":" + order.OrderRef,
		}); err != nil {
			s.log.Error("outbox publish failed",
				zap.String("order_ref", order.OrderRef),
				zap.String("event_type", eventType),
				zap.Error(err),
			)
		}
	}
}

// @Summary      Activate Order
// @Description  Run the go-live sequence for an installed order. Fails with
// @Description  400 when the contract's RICA submission is not approved.
// @Tags         orders
// @Produce      json
// @Security     ApiKeyAuth
// @Param        orderRef path string true "Order reference"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{orderRef}/activate [post]
func (s *Server) ActivateOrder(c *gin.Context) {
	order, err := s.activator.Activate(c.Request.Context(), c.Param("orderRef"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": order})
}

// @Summary      Cancel Order
// @Tags         orders
// @Produce      json
// @Security     ApiKeyAuth
// @Param        orderRef path string true "Order reference"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{orderRef}/cancel [post]
func (s *Server) CancelOrder(c *gin.Context) {
	order, err := s.orderSvc.Transition(c.Request.Context(), c.Param("orderRef"), orderdomain.OrderStatusCancelled)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.closeBillingCycle(c.Request.Context(), order)

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// @Summary      Suspend Order
// @Tags         orders
// @Produce      json
// @Security     ApiKeyAuth
// @Param        orderRef path string true "Order reference"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{orderRef}/suspend [post]
func (s *Server) SuspendOrder(c *gin.Context) {
	order, err := s.orderSvc.Transition(c.Request.Context(), c.Param("orderRef"), orderdomain.OrderStatusSuspended)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.closeBillingCycle(c.Request.Context(), order)

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// closeBillingCycle closes the contract's OPEN cycle when an order leaves
// service. The transition already committed, so failures only log.
func (s *Server) closeBillingCycle(ctx context.Context, order *orderdomain.Order) {
	if order == nil || order.ContractID == nil || s.billingSvc == nil {
		return
	}
	if err := s.billingSvc.CloseActive(ctx, *order.ContractID); err != nil {
		s.log.Error("billing cycle close failed",
			zap.String("order_ref", order.OrderRef),
			zap.Int64("contract_id", int64(*order.ContractID)),
			zap.Error(err),
		)
	}
}
