package domain

// forwardTransitions encodes the pipeline order. An order may only move to
// the next pipeline stage, or exit to cancelled/suspended from any live
// stage. Nothing moves out of cancelled.
var forwardTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPaymentReceived:       {OrderStatusInstallationScheduled, OrderStatusCancelled},
	OrderStatusInstallationScheduled: {OrderStatusInstallationCompleted, OrderStatusCancelled},
	OrderStatusInstallationCompleted: {OrderStatusActive, OrderStatusCancelled},
	OrderStatusActive:                {OrderStatusSuspended, OrderStatusCancelled},
	OrderStatusSuspended:             {OrderStatusActive, OrderStatusCancelled},
	OrderStatusCancelled:             {},
}

// CanTransition reports whether moving from one status to another respects
// the forward-only pipeline.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return false
	}
	for _, allowed := range forwardTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether the value is a known order status.
func ValidStatus(status OrderStatus) bool {
	switch status {
	case OrderStatusPaymentReceived,
		OrderStatusInstallationScheduled,
		OrderStatusInstallationCompleted,
		OrderStatusActive,
		OrderStatusCancelled,
		OrderStatusSuspended:
		return true
	default:
		return false
	}
}
