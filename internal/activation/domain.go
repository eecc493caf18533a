package activation

import (
	"context"
	"errors"

	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
)

var (
	// ErrRICANotApproved gates activation; the HTTP layer maps it to a 400
	// "RICA not approved" response.
	ErrRICANotApproved = errors.New("rica_not_approved")
	ErrNoContract      = errors.New("order_has_no_contract")
)

// Activator runs the go-live sequence for a paid, installed order.
type Activator interface {
	Activate(ctx context.Context, orderRef string) (*orderdomain.Order, error)
}
