package toolfence

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ppiankov/toolfence/internal/model"
)

// ToolHeader names the request header the middleware reads the tool name
// from. Requests without it fall back to the final path segment.
const ToolHeader = "X-Toolfence-Tool"

// Middleware returns an http.Handler that resolves policy for each request
// before passing to next. Denied requests receive a 403 with a JSON body.
// Ask decisions consult the client's confirmation provider, which blocks
// the request until the operator answers; refusal behaves as deny.
func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := toolNameFromRequest(r)
		v := c.Check(name)
		call := model.Call{Tool: name, Args: map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
		}}

		by := model.DeniedByPolicy
		switch v.Mode {
		case model.Allow:
			next.ServeHTTP(w, r)
			return
		case model.Ask:
			if c.confirmer.Confirm(call) {
				next.ServeHTTP(w, r)
				return
			}
			by = model.DeniedByOperator
		}

		c.denied(call, by, v.Pattern)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"blocked": true,
			"tool":    name,
			"mode":    string(v.Mode),
			"by":      by,
			"pattern": v.Pattern,
		})
	})
}

// toolNameFromRequest maps an HTTP request to a tool name: the ToolHeader
// value when present, else the final non-empty path segment.
func toolNameFromRequest(r *http.Request) string {
	if name := r.Header.Get(ToolHeader); name != "" {
		return name
	}
	path := strings.Trim(r.URL.Path, "/")
	if path == "" {
		return ""
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
