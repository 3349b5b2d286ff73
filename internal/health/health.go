package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gsanchezu/elasticbox-plugin/internal/elasticbox"
)

// Status represents the reachability of a cloud
type Status string

const (
	StatusReachable    Status = "reachable"
	StatusUnauthorized Status = "unauthorized"
	StatusUnreachable  Status = "unreachable"

	// DefaultProbeTimeout bounds a single probe when the context has no deadline.
	DefaultProbeTimeout = 10 * time.Second
)

// Result contains the outcome of a cloud probe
type Result struct {
	Status  Status        `json:"status" yaml:"status"`
	Latency time.Duration `json:"latency" yaml:"latency"`
	Err     error         `json:"-" yaml:"-"`
}

// Error returns the probe error message, or "" when the cloud answered.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// CheckCloud probes a cloud by listing its workspaces.
func CheckCloud(ctx context.Context, c elasticbox.Client) Result {
	if c == nil {
		return Result{Status: StatusUnreachable, Err: errors.New("no client configured")}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultProbeTimeout)
		defer cancel()
	}

	start := time.Now()
	_, err := c.GetWorkspaces(ctx)
	result := Result{Latency: time.Since(start), Err: err}
	result.Status = Classify(err)
	return result
}

// Classify maps a probe error to a Status.
func Classify(err error) Status {
	if err == nil {
		return StatusReachable
	}
	var apiErr *elasticbox.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		return StatusUnauthorized
	}
	return StatusUnreachable
}

// FormatLatency renders a probe latency for tables.
func FormatLatency(d time.Duration) string {
	return formatDuration(d)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, mins)
}
