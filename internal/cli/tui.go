package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"brt/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	Long:  `Launch the full-screen UI with the crisis steps, roles, action log and settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func runTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	notifier, stop, err := appInstance.Notifier(ctx)
	if err != nil {
		return err
	}
	defer stop()

	err = tui.Run(tui.Deps{
		Storage:   appInstance.Storage,
		Config:    appInstance.Config,
		Reference: appInstance.Reference,
		Notifier:  notifier,
		Observer:  appInstance.ObserverOptions("tui"),
		Logger:    appInstance.Logger,
	})
	if err != nil {
		return fmt.Errorf("brt: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
