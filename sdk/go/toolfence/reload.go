package toolfence

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reloader watches a client's policy file and rebuilds the table on change.
// Each resolution always sees a complete table; a failed reload keeps the
// previous table live.
type Reloader struct {
	watcher *fsnotify.Watcher
	client  *Client
	path    string
}

// NewReloader creates a file watcher for the client's policy file. The
// client must have been created with WithPolicyFile and a rules table.
func NewReloader(client *Client) (*Reloader, error) {
	if client.fixed != "" {
		return nil, fmt.Errorf("toolfence: fixed-mode client has nothing to reload")
	}
	path := client.policyPath
	if path == "" {
		return nil, fmt.Errorf("toolfence: client was not created with a policy file")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("toolfence: cannot watch policy file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("toolfence: failed to create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("toolfence: failed to watch %q: %w", path, err)
	}

	return &Reloader{watcher: watcher, client: client, path: path}, nil
}

// Run watches for file changes and reloads policy. Blocks until ctx is
// cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	// Debounce: wait 500ms after the last write before reloading.
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if err := r.client.ReloadPolicy(); err != nil {
						fmt.Fprintf(r.client.diag, "toolfence: policy reload failed: %v\n", err)
					} else {
						fmt.Fprintf(r.client.diag, "toolfence: policy reloaded from %s\n", r.path)
					}
				})
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(r.client.diag, "toolfence: watch error: %v\n", err)
		}
	}
}
