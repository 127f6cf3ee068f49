package toolfence

import (
	"context"
	"fmt"

	"github.com/ppiankov/toolfence/internal/model"
	"github.com/ppiankov/toolfence/internal/policy"
)

// Mode is the enforcement outcome for a tool call.
type Mode = model.Mode

const (
	Allow = model.Allow
	Deny  = model.Deny
	Ask   = model.Ask
)

// OnDeny selects how a blocked call is signaled.
type OnDeny = model.OnDeny

const (
	OnDenyRaise  = model.OnDenyRaise
	OnDenyReturn = model.OnDenyReturn
)

// ToolFunc is the function signature Guard wraps. Args carries the call's
// named arguments.
type ToolFunc func(ctx context.Context, args map[string]any) (any, error)

// Tool pairs a ToolFunc with the name policy resolution keys on.
type Tool struct {
	Name        string
	Description string
	Fn          ToolFunc
}

// Verdict is a policy resolution outcome.
type Verdict struct {
	Mode    Mode
	Pattern string // matching pattern; empty for fixed mode or no match
	Reason  string
}

func toVerdict(v policy.Verdict) Verdict {
	return Verdict{Mode: v.Mode, Pattern: v.Pattern, Reason: v.Reason}
}

// Denial is the error a guarded call returns when policy or the operator
// blocks it and the client is configured with OnDenyRaise.
type Denial struct {
	Tool    string
	Args    map[string]any
	By      string // "policy" or "operator"
	Pattern string // matching pattern; empty for fixed-mode and no-match denials
}

func (e *Denial) Error() string {
	return fmt.Sprintf("call to %s denied by %s", model.Call{Tool: e.Tool, Args: e.Args}, e.By)
}

// Refusal is the non-error result a guarded call returns when blocked and
// the client is configured with OnDenyReturn. Hosts that hand tool results
// to a model can pass String() through unchanged.
type Refusal struct {
	Tool    string
	Args    map[string]any
	By      string
	Pattern string
}

func (r Refusal) String() string {
	return fmt.Sprintf("call to %s denied by %s", model.Call{Tool: r.Tool, Args: r.Args}, r.By)
}

// Refused reports whether a guarded call's result value is a Refusal.
func Refused(result any) bool {
	_, ok := result.(Refusal)
	return ok
}
