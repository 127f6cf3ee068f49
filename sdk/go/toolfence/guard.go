package toolfence

import (
	"context"
	"fmt"

	"github.com/ppiankov/toolfence/internal/model"
)

// Guard returns a ToolFunc that resolves policy for tool.Name before every
// invocation of tool.Fn. Allowed calls pass through unchanged, including
// failures from the underlying function. Denied calls never reach tool.Fn:
// a denial line goes to the diagnostic stream and the call returns a
// *Denial error or a Refusal value per the client's on-deny setting. Ask
// decisions block on the confirmation provider; refusal, including empty
// input, follows the deny path with the operator as the denying actor.
func (c *Client) Guard(tool Tool) ToolFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		v := c.Check(tool.Name)
		call := model.Call{Tool: tool.Name, Args: args}

		switch v.Mode {
		case model.Allow:
			return tool.Fn(ctx, args)

		case model.Ask:
			if c.confirmer.Confirm(call) {
				return tool.Fn(ctx, args)
			}
			return c.denied(call, model.DeniedByOperator, v.Pattern)

		default:
			return c.denied(call, model.DeniedByPolicy, v.Pattern)
		}
	}
}

// GuardAll wraps every tool with the same policy source and on-deny
// setting. Returned tools keep their order; each resolves independently by
// its own name at call time.
func (c *Client) GuardAll(tools []Tool) []Tool {
	out := make([]Tool, len(tools))
	for i, tool := range tools {
		out[i] = Tool{
			Name:        tool.Name,
			Description: tool.Description,
			Fn:          c.Guard(tool),
		}
	}
	return out
}

func (c *Client) denied(call model.Call, by, pattern string) (any, error) {
	fmt.Fprintf(c.diag, "toolfence: %s denied by %s\n", call, by)

	if c.onDeny == model.OnDenyReturn {
		return Refusal{Tool: call.Tool, Args: call.Args, By: by, Pattern: pattern}, nil
	}
	return nil, &Denial{Tool: call.Tool, Args: call.Args, By: by, Pattern: pattern}
}

// Guard wraps a single tool with a one-off client. Shorthand for hosts that
// guard tools individually rather than sharing a Client.
func Guard(tool Tool, opts ...Option) (ToolFunc, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Guard(tool), nil
}

// GuardAll wraps a list of tools with one shared client.
func GuardAll(tools []Tool, opts ...Option) ([]Tool, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.GuardAll(tools), nil
}
