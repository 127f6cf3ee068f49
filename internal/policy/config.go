package policy

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/toolfence/internal/model"
)

// Config is the on-disk policy configuration. Either a single fixed mode
// applied to every tool, or a rules map of glob pattern → mode.
type Config struct {
	Mode   string            `yaml:"mode,omitempty"`
	OnDeny string            `yaml:"on_deny,omitempty"`
	Rules  map[string]string `yaml:"rules,omitempty"`
}

// DefaultConfig returns the built-in configuration: prompt for everything.
func DefaultConfig() *Config {
	return &Config{
		OnDeny: string(model.OnDenyRaise),
		Rules:  map[string]string{"*": string(model.Ask)},
	}
}

// DefaultConfigYAML returns a commented starter policy file.
func DefaultConfigYAML() string {
	return `# toolfence policy
#
# Either a single fixed mode for every tool:
#
#   mode: ask
#
# or glob rules over tool names. The most specific matching pattern wins
# regardless of order; a name that matches nothing is denied.
#
# Modes: allow | deny | ask

# on_deny controls how a blocked call is signaled:
#   raise  - the wrapped call returns a denial error (default)
#   return - the wrapped call returns a refusal value the host can feed
#            back to the model
on_deny: raise

rules:
  # read_*: allow
  # delete_*: deny
  "*": ask
`
}

// DefaultPath returns the fallback policy file location,
// ~/.toolfence/policy.yaml. Empty when no home directory is available.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".toolfence", "policy.yaml")
}

// Load reads policy configuration from a YAML file. Empty path falls back
// to DefaultPath. A missing file returns the default config; invalid YAML,
// an unknown mode, or a malformed pattern is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read policy config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse policy config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate fails fast on unknown modes, bad on_deny values, and malformed
// patterns, so a broken file is rejected at load time.
func (c *Config) Validate() error {
	if c.Mode != "" {
		if _, err := model.ParseMode(c.Mode); err != nil {
			return err
		}
		if len(c.Rules) > 0 {
			return fmt.Errorf("policy sets both a fixed mode and rules; pick one")
		}
	}
	if c.OnDeny != "" {
		if _, err := model.ParseOnDeny(c.OnDeny); err != nil {
			return err
		}
	}
	if len(c.Rules) > 0 {
		if _, err := NewTable(c.Rules); err != nil {
			return err
		}
	}
	return nil
}

// Table builds the policy table from the rules map. Returns nil when the
// config carries a fixed mode instead of rules. A config that declares no
// rules at all gets the defaults; one that declares an empty rules map
// keeps it, denying every name.
func (c *Config) Table() (*Table, error) {
	if c.Mode != "" {
		return nil, nil
	}
	rules := c.Rules
	if rules == nil {
		rules = DefaultConfig().Rules
	}
	return NewTable(rules)
}
