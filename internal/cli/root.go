package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"brt/internal/app"
)

var (
	appInstance *app.App
	version     = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "brt",
	Short: "BRT - crisis response companion for the terminal",
	Long: `BRT - crisis response companion for the terminal

  Walk through the crisis steps, look up who is responsible for what,
  and draft action-log entries while brt watches network reachability.

  Quick start:
    brt                      open the interactive UI
    brt status --watch       follow connectivity changes
    brt steps                print the crisis checklist
    brt settings set probe_targets=1.1.1.1,9.9.9.9`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appInstance != nil {
			return appInstance.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initApp(cmd *cobra.Command) error {
	if appInstance != nil {
		return nil
	}
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	dbPath, _ := flags.GetString("db")
	logLevel, _ := flags.GetString("log-level")
	logFile, _ := flags.GetString("log-file")
	verbose, _ := flags.GetBool("verbose")

	var err error
	appInstance, err = app.New(app.Options{
		ConfigPath: configPath,
		DBPath:     dbPath,
		LogLevel:   logLevel,
		LogFile:    logFile,
		Verbose:    verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "log file path")
	rootCmd.PersistentFlags().String("db", "", "database path")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("brt %s\n", version)
	},
}
