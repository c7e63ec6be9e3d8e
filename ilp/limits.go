package ilp

import (
	"context"
	"time"
)

// timeLimit returns the time a solver call may take: fixed when set, otherwise
// what is left until the context deadline, zero meaning no limit. ok is false
// when the deadline has already passed.
func timeLimit(ctx context.Context, fixed time.Duration, now time.Time) (limit time.Duration, ok bool) {
	if fixed > 0 {
		return fixed, true
	}
	deadline, has := ctx.Deadline()
	if !has {
		return 0, true
	}
	if left := deadline.Sub(now); left > 0 {
		return left, true
	}
	return 0, false
}
