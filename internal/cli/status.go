package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"brt/internal/connectivity"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show network reachability",
	Long: `Probe the configured targets once and print the result.

With --watch, keep probing and print a line every time the state changes,
until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		targets, _ := cmd.Flags().GetStringSlice("target")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if watch {
			return runWatch(ctx, targets)
		}
		return runStatus(ctx, targets)
	},
}

func runStatus(ctx context.Context, targets []string) error {
	cfg := appInstance.Config.ProbeConfig()
	if len(targets) > 0 {
		cfg.Targets = targets
	}

	result, err := connectivity.Probe(ctx, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tADDRESS\tRESULT")
	fmt.Fprintln(w, "------\t-------\t------")
	for _, t := range result.Targets {
		res := fmt.Sprintf("%d ms", t.Latency.Milliseconds())
		if !t.OK {
			res = "FAILED"
			if t.Err != nil {
				res = fmt.Sprintf("FAILED (%v)", t.Err)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Target, t.Address, res)
	}
	w.Flush()

	state := connectivity.StateOf(result.Event())
	fmt.Printf("\nStatus: %s\n", state.Label())
	return nil
}

func runWatch(ctx context.Context, targets []string) error {
	var (
		notifier connectivity.Notifier
		release  func()
	)
	if len(targets) > 0 {
		cfg := appInstance.Config.ProbeConfig()
		cfg.Targets = targets
		prober := connectivity.NewProber(cfg, appInstance.Logger)
		if err := prober.Start(ctx); err != nil {
			return err
		}
		notifier, release = prober, func() { prober.Stop() }
	} else {
		var err error
		notifier, release, err = appInstance.Notifier(ctx)
		if err != nil {
			return err
		}
	}
	defer release()

	opts := appInstance.ObserverOptions("status")
	opts.OnChange = func(state connectivity.State) {
		fmt.Printf("%s  %s\n", time.Now().Format(time.TimeOnly), state.Label())
	}
	observer := connectivity.NewObserver(notifier, opts)
	if err := observer.Mount(); err != nil {
		return err
	}
	defer observer.Unmount()

	fmt.Printf("%s  %s\n", time.Now().Format(time.TimeOnly), observer.State().Label())
	<-ctx.Done()
	return nil
}

func init() {
	statusCmd.Flags().BoolP("watch", "w", false, "keep probing and print state changes")
	statusCmd.Flags().StringSliceP("target", "t", nil, "probe these host[:port] targets instead of the configured ones")
	rootCmd.AddCommand(statusCmd)
}
