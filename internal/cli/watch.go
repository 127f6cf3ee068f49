package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ppiankov/toolfence/internal/policy"
)

var watchPolicy string

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPolicy, "policy", "", "Path to policy YAML (default: ~/.toolfence/policy.yaml)")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Validate the policy file on every change",
	Long: "Watches the policy file and revalidates it on each write, reporting\n" +
		"errors immediately instead of on the next guarded call.\n" +
		"Runs until interrupted.",
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := watchPolicy
	if path == "" {
		path = policy.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("cannot determine policy path; pass --policy")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %q: %w", path, err)
	}

	// Validate once up front.
	reportValidation(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch %q: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "watching %s\n", path)

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					reportValidation(path)
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func reportValidation(path string) {
	cfg, err := policy.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		return
	}
	if cfg.Mode != "" {
		fmt.Fprintf(os.Stderr, "OK: fixed mode %s\n", cfg.Mode)
		return
	}
	table, err := cfg.Table()
	if err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "OK: %d rules\n", table.Len())
}
