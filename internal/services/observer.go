package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/catcurious/internal/common"
)

// Observer receives the outcome of service calls. Implementations must be
// safe for concurrent use and must not block.
type Observer interface {
	// AuthAttempt is called once per password check; err is nil on success.
	AuthAttempt(err error)
	// Operation is called when a service method returns.
	Operation(op string, err error, elapsed time.Duration)
}

type NopObserver struct{}

func (NopObserver) AuthAttempt(error)                     {}
func (NopObserver) Operation(string, error, time.Duration) {}

// Operation names reported to Observer.
const (
	OpCreateAccount  = "create_account"
	OpAuthenticate   = "authenticate"
	OpUpdatePassword = "update_password"
	OpGetUserID      = "get_user_id"
	OpCreateCat      = "create_cat"
	OpGetCat         = "get_cat"
	OpGetCatByName   = "get_cat_by_name"
	OpDeleteCat      = "delete_cat"
	OpClearCats      = "clear_cats"
)

var mutations = map[string]bool{
	OpCreateAccount:  true,
	OpUpdatePassword: true,
	OpCreateCat:      true,
	OpDeleteCat:      true,
	OpClearCats:      true,
}

// finish reports op to the observer and logs it: Info for successful
// mutations, Debug for successful reads, Error for storage faults and Warn
// for everything else.
func finish(ctx context.Context, o options, op string, start time.Time, err error, args ...any) {
	o.observer.Operation(op, err, time.Since(start))

	args = append(args, "op", op)
	switch {
	case err == nil && mutations[op]:
		o.log.Info(ctx, "operation succeeded", args...)
	case err == nil:
		o.log.Debug(ctx, "operation succeeded", args...)
	case errors.Is(err, common.ErrStorage):
		o.log.Error(ctx, "operation failed", append(args, "error", err)...)
	default:
		o.log.Warn(ctx, "operation rejected", append(args, "error", err)...)
	}
}
