package toolfence

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ppiankov/toolfence/internal/confirm"
	"github.com/ppiankov/toolfence/internal/model"
	"github.com/ppiankov/toolfence/internal/policy"
)

// Client holds the policy source, on-deny setting, and confirmation
// provider shared by every tool it guards. Immutable after New except for
// the table pointer, which a Reloader may swap atomically under the mutex.
type Client struct {
	fixed      model.Mode // "" when a table is in use
	onDeny     model.OnDeny
	confirmer  confirm.Confirmer
	diag       io.Writer
	policyPath string

	mu    sync.Mutex
	table *policy.Table
}

// New creates a Client. Mode, rule, and on-deny strings are validated here
// so misconfiguration fails at registration, never on first invocation.
// With no policy option the client prompts for every tool.
func New(opts ...Option) (*Client, error) {
	var cfg clientConfig
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.usePath {
		if cfg.policyPath == "" {
			cfg.policyPath = policy.DefaultPath()
		}
		fileCfg, err := policy.Load(cfg.policyPath)
		if err != nil {
			return nil, fmt.Errorf("toolfence: %w", err)
		}
		if cfg.mode == "" {
			cfg.mode = fileCfg.Mode
		}
		if cfg.rules == nil {
			cfg.rules = fileCfg.Rules
		}
		if cfg.onDeny == "" {
			cfg.onDeny = fileCfg.OnDeny
		}
	}

	if cfg.onDeny == "" {
		cfg.onDeny = string(model.OnDenyRaise)
	}
	onDeny, err := model.ParseOnDeny(cfg.onDeny)
	if err != nil {
		return nil, fmt.Errorf("toolfence: %w", err)
	}

	if cfg.diag == nil {
		cfg.diag = os.Stderr
	}
	if cfg.confirmer == nil {
		cfg.confirmer = &confirm.Terminal{In: os.Stdin, Out: cfg.diag}
	}

	c := &Client{
		onDeny:     onDeny,
		confirmer:  cfg.confirmer,
		diag:       cfg.diag,
		policyPath: cfg.policyPath,
	}

	switch {
	case cfg.mode != "":
		if len(cfg.rules) > 0 {
			return nil, fmt.Errorf("toolfence: both a fixed mode and rules configured; pick one")
		}
		mode, err := model.ParseMode(cfg.mode)
		if err != nil {
			return nil, fmt.Errorf("toolfence: %w", err)
		}
		c.fixed = mode
	default:
		// Only a missing policy falls back to prompt-for-everything. An
		// explicitly empty table stays empty, so every name is denied.
		rules := cfg.rules
		if rules == nil {
			rules = map[string]string{"*": string(model.Ask)}
		}
		table, err := policy.NewTable(rules)
		if err != nil {
			return nil, fmt.Errorf("toolfence: %w", err)
		}
		c.table = table
	}

	return c, nil
}

// Check resolves policy for a tool name without executing anything.
func (c *Client) Check(name string) Verdict {
	if c.fixed != "" {
		return Verdict{Mode: c.fixed, Reason: "fixed mode"}
	}
	c.mu.Lock()
	table := c.table
	c.mu.Unlock()
	return toVerdict(table.Resolve(name))
}

// ReloadPolicy rebuilds the table from the client's policy file. Clients
// not created with WithPolicyFile, and fixed-mode policy files, cannot be
// reloaded into a table client. On failure the previous table stays live.
func (c *Client) ReloadPolicy() error {
	if c.fixed != "" {
		return fmt.Errorf("toolfence: fixed-mode client has no table to reload")
	}
	if c.policyPath == "" {
		return fmt.Errorf("toolfence: client was not created with a policy file")
	}

	fileCfg, err := policy.Load(c.policyPath)
	if err != nil {
		return err
	}
	table, err := fileCfg.Table()
	if err != nil {
		return err
	}
	if table == nil {
		return fmt.Errorf("toolfence: policy file switched to a fixed mode; restart to apply")
	}

	c.mu.Lock()
	c.table = table
	c.mu.Unlock()
	return nil
}
