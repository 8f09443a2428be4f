package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"brt/internal/config"
	apperrors "brt/pkg/errors"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persisted settings",
	Long: `List, read and change the settings stored in the brt database.

Stored settings override the config file. Changes apply the next time brt starts.`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings with their effective values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		stored, err := appInstance.Storage.GetAllSettings(ctx)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE\tSOURCE\tDESCRIPTION")
		fmt.Fprintln(w, "---\t-----\t------\t-----------")
		for _, def := range config.Definitions {
			source := "config"
			if _, ok := stored[def.Key]; ok {
				source = "stored"
			}
			val := appInstance.Config.Value(def.Key)
			if val == "" {
				val = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Key, val, source, def.Description)
		}
		return w.Flush()
	},
}

var settingsGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the effective value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeSettingKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := config.Lookup(args[0]); !ok {
			return &apperrors.SettingError{Key: args[0], Err: apperrors.ErrUnknownSetting}
		}
		fmt.Println(appInstance.Config.Value(args[0]))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key>=<value>...",
	Short: "Store one or more settings",
	Long: `Store one or more settings. All values are validated first and written in a
single transaction, so either every setting is stored or none is.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeSettingAssignments,
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, err := parseAssignments(args)
		if err != nil {
			return err
		}

		ctx := context.Background()
		tx, err := appInstance.Storage.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		for _, p := range pairs {
			if err := tx.SetSetting(ctx, p[0], p[1]); err != nil {
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit settings: %w", err)
		}

		for _, p := range pairs {
			fmt.Printf("%s = %s\n", p[0], p[1])
		}
		return nil
	},
}

var settingsUnsetCmd = &cobra.Command{
	Use:               "unset <key>",
	Short:             "Remove a stored setting and fall back to the config file",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeSettingKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := appInstance.Storage.DeleteSetting(context.Background(), args[0])
		if errors.Is(err, apperrors.ErrSettingNotFound) {
			fmt.Printf("%s is not stored\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

// parseAssignments splits and validates key=value arguments.
func parseAssignments(args []string) ([][2]string, error) {
	pairs := make([][2]string, 0, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q: expected key=value", arg)
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if err := config.ValidateSetting(k, v); err != nil {
			return nil, err
		}
		pairs = append(pairs, [2]string{k, v})
	}
	return pairs, nil
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}
