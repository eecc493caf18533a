package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jdeweedata/circletel-sub013/internal/activation"
	billingdomain "github.com/jdeweedata/circletel-sub013/internal/billingcycle/domain"
	catalogdomain "github.com/jdeweedata/circletel-sub013/internal/catalog/domain"
	contractdomain "github.com/jdeweedata/circletel-sub013/internal/contract/domain"
	mandatedomain "github.com/jdeweedata/circletel-sub013/internal/mandate/domain"
	notificationdomain "github.com/jdeweedata/circletel-sub013/internal/notification/domain"
	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
	portaldomain "github.com/jdeweedata/circletel-sub013/internal/portal/domain"
	ricadomain "github.com/jdeweedata/circletel-sub013/internal/rica/domain"
)

// apiError is the structured error returned to API clients as
// {"error": ..., "message": ...}.
type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

func (e *apiError) Error() string { return e.Code }

var (
	ErrUnauthorized = &apiError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthorized",
		Message: "authentication required",
	}
	ErrForbidden = &apiError{
		Status:  http.StatusForbidden,
		Code:    "forbidden",
		Message: "insufficient permissions",
	}
	ErrNotFound = &apiError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "resource not found",
	}
	ErrTooManyRequests = &apiError{
		Status:  http.StatusTooManyRequests,
		Code:    "rate_limited",
		Message: "too many requests",
	}
)

func invalidRequestError() *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "request body could not be parsed",
	}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// AbortWithError translates domain sentinel errors into the API error
// taxonomy and writes the response.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.Status, api)
		return
	}

	switch {
	case errors.Is(err, activation.ErrRICANotApproved):
		// Exact body contract with the front end.
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "RICA not approved"})
	case isNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, &apiError{
			Status:  http.StatusNotFound,
			Code:    "not_found",
			Message: err.Error(),
		})
	case isValidation(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, &apiError{
			Status:  http.StatusBadRequest,
			Code:    err.Error(),
			Message: "request validation failed",
		})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, &apiError{
			Status:  http.StatusInternalServerError,
			Code:    "internal_error",
			Message: "an unexpected error occurred",
		})
	}
}

func isNotFound(err error) bool {
	for _, candidate := range []error{
		orderdomain.ErrOrderNotFound,
		contractdomain.ErrContractNotFound,
		contractdomain.ErrQuoteNotFound,
		notificationdomain.ErrNotificationNotFound,
		portaldomain.ErrAccountNotFound,
		ricadomain.ErrSubmissionNotFound,
		mandatedomain.ErrMandateNotFound,
		billingdomain.ErrCycleNotFound,
		paymentdomain.ErrProviderNotFound,
		catalogdomain.ErrProductNotFound,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

func isValidation(err error) bool {
	for _, candidate := range []error{
		orderdomain.ErrInvalidOrderRef,
		orderdomain.ErrInvalidCustomer,
		orderdomain.ErrInvalidPackage,
		orderdomain.ErrInvalidAmount,
		orderdomain.ErrInvalidStatus,
		orderdomain.ErrInvalidTransition,
		orderdomain.ErrOrderExists,
		notificationdomain.ErrInvalidUser,
		notificationdomain.ErrInvalidType,
		notificationdomain.ErrInvalidTitle,
		notificationdomain.ErrInvalidMessage,
		portaldomain.ErrInvalidEmail,
		portaldomain.ErrInvalidName,
		ricadomain.ErrInvalidContract,
		ricadomain.ErrInvalidTrackingID,
		ricadomain.ErrInvalidStatus,
		activation.ErrNoContract,
		catalogdomain.ErrInvalidPackageCode,
		paymentdomain.ErrInvalidProvider,
		paymentdomain.ErrProviderNotConfigured,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
