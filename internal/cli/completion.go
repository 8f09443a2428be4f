package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"brt/internal/config"
)

// completeSettingKeys completes a single setting key.
func completeSettingKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return matchingKeys(toComplete, ""), cobra.ShellCompDirectiveNoFileComp
}

// completeSettingAssignments completes key= for each argument, then the
// choices of choice settings once the key is typed.
func completeSettingAssignments(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	k, prefix, typed := strings.Cut(toComplete, "=")
	if !typed {
		return matchingKeys(toComplete, "="), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}

	def, ok := config.Lookup(k)
	if !ok || def.Kind != config.KindChoice {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var completions []string
	for _, c := range def.Choices {
		if strings.HasPrefix(c, strings.ToLower(prefix)) {
			completions = append(completions, k+"="+c)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func matchingKeys(toComplete, suffix string) []string {
	var completions []string
	for _, key := range config.Keys() {
		if strings.HasPrefix(key, strings.ToLower(toComplete)) {
			completions = append(completions, key+suffix)
		}
	}
	return completions
}
