package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "toolfence",
	Short: "Policy guard for agent tool calls",
	Long: "Wraps agent tool functions with allow/deny/ask policies. Policies are\n" +
		"glob patterns over tool names; the most specific matching pattern wins\n" +
		"and a name that matches nothing is denied.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
