package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/toolfence/internal/model"
	"github.com/ppiankov/toolfence/internal/policy"
)

var (
	resolvePolicy string
	resolveFormat string
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolvePolicy, "policy", "", "Path to policy YAML (default: ~/.toolfence/policy.yaml)")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "text", "Output format (text|json)")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve NAME...",
	Short: "Resolve policy modes for tool names",
	Long: "Loads the policy file and prints the resolved mode and matching\n" +
		"pattern for each tool name.\n\n" +
		"Exit code 1 if any name resolves to deny.\n" +
		"Use in CI to catch tools a policy change would silently block.",
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

// resolution is one resolved name, shaped for both output formats.
type resolution struct {
	Name    string `json:"name"`
	Mode    string `json:"mode"`
	Pattern string `json:"pattern,omitempty"`
	Reason  string `json:"reason"`
}

func resolveNames(cfg *policy.Config, names []string) ([]resolution, bool, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, false, err
	}

	results := make([]resolution, 0, len(names))
	anyDenied := false
	for _, name := range names {
		var res resolution
		if table == nil {
			res = resolution{Name: name, Mode: cfg.Mode, Reason: "fixed mode"}
			anyDenied = anyDenied || cfg.Mode == string(model.Deny)
		} else {
			v := table.Resolve(name)
			res = resolution{Name: name, Mode: string(v.Mode), Pattern: v.Pattern, Reason: v.Reason}
			anyDenied = anyDenied || v.Mode == model.Deny
		}
		results = append(results, res)
	}
	return results, anyDenied, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := policy.Load(resolvePolicy)
	if err != nil {
		return err
	}

	results, anyDenied, err := resolveNames(cfg, args)
	if err != nil {
		return err
	}

	switch resolveFormat {
	case "json":
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		for _, r := range results {
			if r.Pattern != "" {
				fmt.Printf("%-30s %-6s (%s)\n", r.Name, r.Mode, r.Pattern)
			} else {
				fmt.Printf("%-30s %-6s (%s)\n", r.Name, r.Mode, r.Reason)
			}
		}
	}

	if anyDenied {
		os.Exit(1)
	}
	return nil
}
