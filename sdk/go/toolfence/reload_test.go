package toolfence

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewReloaderRequiresPolicyFile(t *testing.T) {
	c, err := New(WithRules(map[string]string{"*": "allow"}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := NewReloader(c); err == nil {
		t.Error("expected error for client without a policy file")
	}
}

func TestNewReloaderRejectsFixedMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("mode: allow\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := New(WithPolicyFile(path))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := NewReloader(c); err == nil {
		t.Error("expected error for fixed-mode client")
	}
}

func TestReloaderPicksUpFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  \"*\": allow\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := New(WithPolicyFile(path), WithDiagWriter(&strings.Builder{}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r, err := NewReloader(c)
	if err != nil {
		t.Fatalf("NewReloader failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	if err := os.WriteFile(path, []byte("rules:\n  \"*\": deny\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Debounce is 500ms; poll well past it.
	deadline := time.After(5 * time.Second)
	for {
		if c.Check("anything").Mode == Deny {
			break
		}
		select {
		case <-deadline:
			t.Fatal("reloader never picked up the policy change")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned error: %v", err)
	}
}
