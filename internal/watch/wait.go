package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
	"github.com/gsanchezu/elasticbox-plugin/internal/errors"
	"github.com/gsanchezu/elasticbox-plugin/internal/logging"
)

const (
	DefaultWaitTimeout  = 10 * time.Minute
	DefaultPollInterval = 5 * time.Second
)

// Condition reports whether the awaited state has been reached.
type Condition func(ctx context.Context) (bool, error)

// WaitUntil evaluates cond every interval until it holds, the timeout
// elapses, or ctx is done. It reports whether the condition was satisfied.
// An error from cond stops the wait.
func WaitUntil(ctx context.Context, cond Condition, timeout, interval time.Duration) (bool, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-deadline.C:
			return false, nil
		case <-ticker.C:
		}
	}
}

// InstanceDeployed holds once the instance is no longer processing.
func InstanceDeployed(c elasticbox.Client, id string) Condition {
	return instanceSettled(c, id, nil)
}

func instanceSettled(c elasticbox.Client, id string, last **elasticbox.Instance) Condition {
	return func(ctx context.Context) (bool, error) {
		instance, err := c.GetInstance(ctx, id)
		if err != nil {
			return false, err
		}
		if last != nil {
			*last = instance
		}
		logging.Debug("polled instance", logging.KeyInstance, id, "state", instance.State)
		return instance.State != elasticbox.StateProcessing, nil
	}
}

// WaitForInstance waits until the instance leaves the processing state and
// returns its last polled record. It fails with a timeout error when the
// instance is still processing at the deadline, and with a general error
// when it settles as unavailable.
func WaitForInstance(ctx context.Context, c elasticbox.Client, id string, timeout, interval time.Duration) (*elasticbox.Instance, error) {
	var last *elasticbox.Instance
	ok, err := WaitUntil(ctx, instanceSettled(c, id, &last), timeout, interval)
	if err != nil {
		return last, err
	}
	if !ok {
		return last, errors.Timeout(fmt.Sprintf("instance %s", id))
	}
	if last.State == elasticbox.StateUnavailable {
		return last, errors.New(errors.ExitGeneralError, fmt.Sprintf("instance %s is unavailable", id))
	}
	return last, nil
}
