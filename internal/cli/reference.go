package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"brt/internal/reference"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Print the crisis steps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for i, s := range appInstance.Reference.Steps {
			fmt.Printf("%d. %s %s\n", i+1, reference.Glyph(s.Icon), s.Title)
		}
		return nil
	},
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Print key people and responsibilities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := appInstance.Reference
		fmt.Println(m.RolesSummary)
		if len(m.Roles) == 0 {
			return nil
		}

		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ROLE\tHOLDER\tRESPONSIBILITIES")
		fmt.Fprintln(w, "----\t------\t----------------")
		for _, r := range m.Roles {
			holder := r.Holder
			if holder == "" {
				holder = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, holder, strings.Join(r.Responsibilities, "; "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(rolesCmd)
}
