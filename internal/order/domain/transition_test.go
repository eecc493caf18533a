package domain

import "testing"

func TestForwardPipeline(t *testing.T) {
	steps := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPaymentReceived, OrderStatusInstallationScheduled},
		{OrderStatusInstallationScheduled, OrderStatusInstallationCompleted},
		{OrderStatusInstallationCompleted, OrderStatusActive},
	}
	for _, step := range steps {
		if !CanTransition(step.from, step.to) {
			t.Fatalf("expected %s -> %s to be allowed", step.from, step.to)
		}
	}
}

func TestNoSkippingGates(t *testing.T) {
	denied := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPaymentReceived, OrderStatusInstallationCompleted},
		{OrderStatusPaymentReceived, OrderStatusActive},
		{OrderStatusInstallationScheduled, OrderStatusActive},
	}
	for _, step := range denied {
		if CanTransition(step.from, step.to) {
			t.Fatalf("expected %s -> %s to be denied", step.from, step.to)
		}
	}
}

func TestNoBackwardTransitions(t *testing.T) {
	denied := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusActive, OrderStatusPaymentReceived},
		{OrderStatusInstallationCompleted, OrderStatusInstallationScheduled},
		{OrderStatusCancelled, OrderStatusActive},
		{OrderStatusCancelled, OrderStatusPaymentReceived},
	}
	for _, step := range denied {
		if CanTransition(step.from, step.to) {
			t.Fatalf("expected %s -> %s to be denied", step.from, step.to)
		}
	}
}

func TestSuspendAndReactivate(t *testing.T) {
	if !CanTransition(OrderStatusActive, OrderStatusSuspended) {
		t.Fatal("expected active -> suspended to be allowed")
	}
	if !CanTransition(OrderStatusSuspended, OrderStatusActive) {
		t.Fatal("expected suspended -> active to be allowed")
	}
}

func TestSelfTransitionDenied(t *testing.T) {
	if CanTransition(OrderStatusActive, OrderStatusActive) {
		t.Fatal("expected self transition to be denied")
	}
}
