package toolfence

import (
	"context"
	"errors"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// CallInput defines the parameters for a guarded MCP tool.
type CallInput struct {
	Args map[string]any `json:"args,omitempty" jsonschema:"named arguments for the tool"`
}

// CallOutput contains the tool result or block details.
type CallOutput struct {
	Result  any    `json:"result,omitempty"`
	Blocked bool   `json:"blocked,omitempty"`
	By      string `json:"by,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// MCPServer exposes guarded tools over the Model Context Protocol.
type MCPServer struct {
	srv *mcpsdk.Server
}

// MCPServer registers each tool behind the client's guard on an MCP server.
// Blocked calls surface as tool error results so the model sees the
// refusal instead of a transport failure.
func (c *Client) MCPServer(name, version string, tools []Tool) *MCPServer {
	srv := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    name,
			Version: version,
		},
		nil,
	)

	for _, tool := range tools {
		desc := tool.Description
		if desc == "" {
			desc = "Guarded tool. Denied calls return an error result with the reason."
		}
		mcpsdk.AddTool(srv, &mcpsdk.Tool{
			Name:        tool.Name,
			Description: desc,
		}, c.mcpHandler(tool))
	}

	return &MCPServer{srv: srv}
}

// Run serves on stdio transport. Blocks until ctx is cancelled.
func (s *MCPServer) Run(ctx context.Context) error {
	return s.srv.Run(ctx, &mcpsdk.StdioTransport{})
}

func (c *Client) mcpHandler(tool Tool) func(context.Context, *mcpsdk.CallToolRequest, CallInput) (*mcpsdk.CallToolResult, CallOutput, error) {
	guarded := c.Guard(tool)

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input CallInput) (*mcpsdk.CallToolResult, CallOutput, error) {
		result, err := guarded(ctx, input.Args)
		if err != nil {
			var denial *Denial
			if errors.As(err, &denial) {
				out := CallOutput{
					Blocked: true,
					By:      denial.By,
					Reason:  denial.Error(),
				}
				return &mcpsdk.CallToolResult{IsError: true}, out, nil
			}
			return nil, CallOutput{}, err
		}

		if refusal, ok := result.(Refusal); ok {
			out := CallOutput{
				Blocked: true,
				By:      refusal.By,
				Reason:  refusal.String(),
			}
			return &mcpsdk.CallToolResult{IsError: true}, out, nil
		}

		return nil, CallOutput{Result: result}, nil
	}
}
