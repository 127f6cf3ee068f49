// Package toolfence provides in-process policy enforcement for Go agent
// frameworks. It wraps tool functions in a guard that resolves a policy
// (allow, deny, ask) for the tool's name on every call, enforces the
// decision, and escalates ask decisions to an interactive confirmation
// provider. Policy is a glob table over tool names where the most specific
// matching pattern wins and an unmatched name is denied.
//
// Usage:
//
//	tf, err := toolfence.New(toolfence.WithRules(map[string]string{
//	    "delete_*": "deny",
//	    "*":        "allow",
//	}))
//	guarded := tf.Guard(toolfence.Tool{Name: "delete_channel", Fn: deleteChannel})
//	result, err := guarded(ctx, map[string]any{"name": "general"})
//
// Blocked calls return a *Denial error, or a Refusal result value when the
// client is configured with on_deny=return for hosts that feed tool results
// back to a model.
package toolfence
