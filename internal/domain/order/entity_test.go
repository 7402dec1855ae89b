package order_test

import (
	"testing"

	"github.com/orda/orda-api/internal/domain/order"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to order.Status
		allowed  bool
	}{
		{order.StatusPending, order.StatusProcessing, true},
		{order.StatusPending, order.StatusCancelled, true},
		{order.StatusPending, order.StatusShipped, false},
		{order.StatusPending, order.StatusCompleted, false},

		{order.StatusProcessing, order.StatusShipped, true},
		{order.StatusProcessing, order.StatusCancelled, true},
		{order.StatusProcessing, order.StatusCompleted, false},
		{order.StatusProcessing, order.StatusPending, false},

		{order.StatusShipped, order.StatusCompleted, true},
		{order.StatusShipped, order.StatusCancelled, true},
		{order.StatusShipped, order.StatusProcessing, false},

		// cancelling a completed order triggers the refund path
		{order.StatusCompleted, order.StatusCancelled, true},
		{order.StatusCompleted, order.StatusCompleted, false},
		{order.StatusCompleted, order.StatusShipped, false},

		{order.StatusCancelled, order.StatusPending, false},
		{order.StatusCancelled, order.StatusCompleted, false},
		{order.StatusCancelled, order.StatusCancelled, false},
	}

	for _, c := range cases {
		if got := order.CanTransition(c.from, c.to); got != c.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.allowed)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []order.Status{
		order.StatusPending, order.StatusProcessing, order.StatusShipped,
		order.StatusCompleted, order.StatusCancelled,
	} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}

	if order.Status("delivered").IsValid() {
		t.Error("unknown status should be invalid")
	}
}
