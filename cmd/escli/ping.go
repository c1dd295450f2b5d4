package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	client "github.com/hsn0918/escli-client"
)

type pingOptions struct {
	count    int
	interval float64
	opts     *cliOptions
}

func newPingCmd(opts *cliOptions) *cobra.Command {
	po := &pingOptions{opts: opts}

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Ping a HEAD request to the service root to check availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return po.run(cmd)
		},
	}

	cmd.Flags().IntVarP(&po.count, "count", "c", 0, "Stop after sending COUNT requests")
	cmd.Flags().Float64VarP(&po.interval, "interval", "i", 1.0, "Time to wait in seconds between requests")

	return cmd
}

func (o *pingOptions) complete() (time.Duration, error) {
	if o.count < 0 {
		return 0, fmt.Errorf("count must not be negative: %d", o.count)
	}
	if o.interval <= 0 {
		return 0, fmt.Errorf("interval must be positive: %g", o.interval)
	}
	return time.Duration(o.interval * float64(time.Second)), nil
}

func (o *pingOptions) run(cmd *cobra.Command) error {
	interval, err := o.complete()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := printOut(out, "HEAD %s\n", o.opts.cli.URL()); err != nil {
		return err
	}

	attempts := 0
	failed, err := client.PingEvery(cmd.Context(), o.opts.cli, interval, o.count, func(r client.PingReport) {
		attempts = r.Seq
		if r.Err != nil {
			_ = printOut(out, "%v: seq=%d\n", r.Err, r.Seq)
			return
		}
		_ = printOut(out, "%s: seq=%d time=%s\n", r.Result.Status, r.Seq, r.Result.Elapsed.Round(time.Microsecond))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pings failed", failed, attempts)
	}
	return nil
}
