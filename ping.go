package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const DefaultPingInterval = time.Second

// Ping sends a HEAD request to the service root. Any completed request is a
// result, whatever its status; only a request that could not complete is an
// error.
func (c *client) Ping(ctx context.Context) (*PingResult, error) {
	start := time.Now()
	resp, err := c.execute(ctx, call{
		op:        OperationPing,
		method:    http.MethodHead,
		path:      EndpointRoot,
		rawStatus: true,
	})
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	return &PingResult{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Elapsed:    elapsed,
	}, nil
}

// PingReport is passed to the observer of PingEvery after each attempt.
type PingReport struct {
	Seq    int
	Result *PingResult
	Err    error
}

// Failed reports whether the attempt errored or returned a non-2xx status.
func (r PingReport) Failed() bool {
	if r.Err != nil {
		return true
	}
	return r.Result == nil || r.Result.StatusCode < 200 || r.Result.StatusCode > 299
}

// PingEvery pings repeatedly, sleeping interval after each attempt completes,
// and calls observe after each one. It stops after count attempts when
// count > 0, otherwise only when ctx ends. It returns the number of failed
// attempts.
func PingEvery(ctx context.Context, pinger Pinger, interval time.Duration, count int, observe func(PingReport)) (int, error) {
	if interval <= 0 {
		interval = DefaultPingInterval
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	failed := 0
	for seq := 1; ; seq++ {
		result, err := pinger.Ping(ctx)
		report := PingReport{Seq: seq, Result: result, Err: err}
		if report.Failed() {
			failed++
		}
		if observe != nil {
			observe(report)
		}

		if count > 0 && seq >= count {
			return failed, nil
		}

		timer.Reset(interval)
		if err := waitForNextPing(ctx, timer); err != nil {
			return failed, err
		}
	}
}

// waitForNextPing blocks until the timer fires or ctx is cancelled.
func waitForNextPing(ctx context.Context, timer *time.Timer) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("ping cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
