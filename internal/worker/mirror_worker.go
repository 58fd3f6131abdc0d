// Package worker keeps a secondary repository in step with the primary one,
// driven by save notifications from AMQP.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/storage"
)

// MirrorWorker copies the whole expense list from source to target.
type MirrorWorker struct {
	source storage.Repository
	target storage.Repository

	mu         sync.Mutex
	lastSynced time.Time
	now        func() time.Time
}

func NewMirrorWorker(source, target storage.Repository) *MirrorWorker {
	return &MirrorWorker{source: source, target: target, now: time.Now}
}

// HandleSavedMessage mirrors the source after a save. Notifications older
// than the last completed sync are already covered and are skipped.
func (w *MirrorWorker) HandleSavedMessage(ctx context.Context, msg *amqp.SavedMessage) error {
	w.mu.Lock()
	last := w.lastSynced
	w.mu.Unlock()
	if !last.IsZero() && msg.Timestamp.Before(last) {
		slog.DebugContext(ctx, "Skipping stale save notification",
			"timestamp", msg.Timestamp,
			"last_synced", last)
		return nil
	}

	n, err := w.Sync(ctx)
	if err != nil {
		return err
	}
	if n != msg.Count {
		// Another save landed in between; the mirror holds the newer list.
		slog.InfoContext(ctx, "Mirrored list differs from notification",
			"notified_count", msg.Count,
			"mirrored_count", n)
	}
	return nil
}

// StartupSync brings the target up to date before any notification arrives.
func (w *MirrorWorker) StartupSync(ctx context.Context) error {
	n, err := w.Sync(ctx)
	if err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "count", n)
	return nil
}

// Sync copies the source list to the target and returns its length. The
// target is left untouched when the source cannot be read.
func (w *MirrorWorker) Sync(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	started := w.now()
	items, err := w.source.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load source: %w", err)
	}
	if err := w.target.SaveAll(ctx, items); err != nil {
		return 0, fmt.Errorf("save mirror: %w", err)
	}
	w.lastSynced = started
	return len(items), nil
}
