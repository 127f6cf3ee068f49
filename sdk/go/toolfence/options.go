package toolfence

import (
	"io"

	"github.com/ppiankov/toolfence/internal/confirm"
)

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	mode       string
	rules      map[string]string
	policyPath string
	usePath    bool
	onDeny     string
	confirmer  confirm.Confirmer
	diag       io.Writer
}

// WithMode sets a single fixed mode ("allow"|"deny"|"ask") applied to every
// tool, bypassing pattern resolution.
func WithMode(mode string) Option {
	return func(c *clientConfig) { c.mode = mode }
}

// WithRules sets the policy table: glob pattern over tool names → mode.
func WithRules(rules map[string]string) Option {
	return func(c *clientConfig) { c.rules = rules }
}

// WithPolicyFile loads policy from a YAML file. Empty path means
// ~/.toolfence/policy.yaml. Explicit WithMode/WithRules/WithOnDeny options
// override what the file sets.
func WithPolicyFile(path string) Option {
	return func(c *clientConfig) {
		c.policyPath = path
		c.usePath = true
	}
}

// WithOnDeny sets how blocked calls are signaled: "raise" (default) or
// "return".
func WithOnDeny(onDeny string) Option {
	return func(c *clientConfig) { c.onDeny = onDeny }
}

// WithConfirmer sets the confirmation provider consulted for ask decisions.
// Defaults to an interactive terminal prompt on stderr/stdin.
func WithConfirmer(cf confirm.Confirmer) Option {
	return func(c *clientConfig) { c.confirmer = cf }
}

// WithDiagWriter sets the stream for denial lines and prompts. Defaults to
// stderr so diagnostics never mix with program data.
func WithDiagWriter(w io.Writer) Option {
	return func(c *clientConfig) { c.diag = w }
}
