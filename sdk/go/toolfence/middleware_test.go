package toolfence

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/toolfence/internal/confirm"
)

func newMiddlewareClient(t *testing.T, rules map[string]string, cf confirm.Confirmer) *Client {
	t.Helper()
	opts := []Option{WithRules(rules), WithDiagWriter(&strings.Builder{})}
	if cf != nil {
		opts = append(opts, WithConfirmer(cf))
	}
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestMiddlewareAllows(t *testing.T) {
	c := newMiddlewareClient(t, map[string]string{"*": "allow"}, nil)
	handler := c.Middleware(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/tools/read_messages", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected body passed through, got %q", rec.Body.String())
	}
}

func TestMiddlewareBlocks(t *testing.T) {
	c := newMiddlewareClient(t, map[string]string{
		"delete_*": "deny",
		"*":        "allow",
	}, nil)
	handler := c.Middleware(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/tools/delete_channel", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["blocked"] != true {
		t.Error("expected blocked=true")
	}
	if body["tool"] != "delete_channel" {
		t.Errorf("expected tool name in body, got %v", body["tool"])
	}
	if body["pattern"] != "delete_*" {
		t.Errorf("expected matching pattern in body, got %v", body["pattern"])
	}
}

func TestMiddlewareHeaderOverridesPath(t *testing.T) {
	c := newMiddlewareClient(t, map[string]string{
		"delete_*": "deny",
		"*":        "allow",
	}, nil)
	handler := c.Middleware(okHandler())

	req := httptest.NewRequest("POST", "/rpc", nil)
	req.Header.Set(ToolHeader, "delete_channel")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 via header tool name, got %d", rec.Code)
	}
}

func TestMiddlewareAskConsultsConfirmer(t *testing.T) {
	script := confirm.NewScript(true, false)
	c := newMiddlewareClient(t, map[string]string{"*": "ask"}, script)
	handler := c.Middleware(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/tools/send_message", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("approved request: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/tools/send_message", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("refused request: expected 403, got %d", rec.Code)
	}
}
