package model

import (
	"fmt"
	"sort"
	"strings"
)

// Mode is the enforcement outcome for a tool call.
type Mode string

const (
	Allow Mode = "allow"
	Deny  Mode = "deny"
	Ask   Mode = "ask"
)

// ParseMode validates a mode string. Unknown modes are a configuration
// error and surface at registration time, never on first invocation.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Allow, Deny, Ask:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q: must be one of allow, deny, ask", s)
}

// OnDeny selects how a blocked call is signaled to the caller.
type OnDeny string

const (
	// OnDenyRaise returns a denial error from the wrapped call.
	OnDenyRaise OnDeny = "raise"
	// OnDenyReturn returns a refusal value as the call result, for hosts
	// that feed tool results back to a model rather than handling errors.
	OnDenyReturn OnDeny = "return"
)

// ParseOnDeny validates an on_deny string at registration time.
func ParseOnDeny(s string) (OnDeny, error) {
	switch OnDeny(s) {
	case OnDenyRaise, OnDenyReturn:
		return OnDeny(s), nil
	}
	return "", fmt.Errorf("invalid on_deny %q: must be one of raise, return", s)
}

// Actors that can block a call.
const (
	DeniedByPolicy   = "policy"
	DeniedByOperator = "operator"
)

// Call is an ephemeral record of an attempted tool invocation. It exists
// only to render confirmation prompts and denial lines; nothing persists it.
type Call struct {
	Tool string
	Args map[string]any
}

// String renders the call as name(k=v, ...). Argument keys are sorted so
// the rendering is deterministic; string values are quoted.
func (c Call) String() string {
	keys := make([]string, 0, len(c.Args))
	for k := range c.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := c.Args[k].(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s=%q", k, v))
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return fmt.Sprintf("%s(%s)", c.Tool, strings.Join(parts, ", "))
}
