package jobs

import (
	"context"
	"fmt"
	"time"

	"infinite-experiment/flightboard/internal/board"
	"infinite-experiment/flightboard/internal/constants"
	"infinite-experiment/flightboard/internal/logging"
	"infinite-experiment/flightboard/internal/models/dtos"
	"infinite-experiment/flightboard/internal/store"
)

// Loader is the part of the entity store the job drives.
type Loader interface {
	Load(ctx context.Context) (*store.Snapshot, error)
}

// BoardWarmer derives the board for the current selection so the first
// request after a refresh is served from cache.
type BoardWarmer interface {
	Selection() board.Selection
	Board(ctx context.Context, sel board.Selection, source string) (*dtos.Board, error)
}

// StoreRefreshJob reloads every collection on a schedule. It never touches
// entities itself; a failed run leaves the last good snapshot in place.
type StoreRefreshJob struct {
	store Loader
	board BoardWarmer
}

// NewStoreRefreshJob builds the job. b may be nil to skip cache warming.
func NewStoreRefreshJob(s Loader, b BoardWarmer) *StoreRefreshJob {
	return &StoreRefreshJob{store: s, board: b}
}

// Run performs one refresh.
func (j *StoreRefreshJob) Run(ctx context.Context) error {
	start := time.Now()

	snap, err := j.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("store refresh: %w", err)
	}

	if j.board != nil {
		sel := j.board.Selection()
		if sel.AirportID != nil {
			if _, err := j.board.Board(ctx, sel, constants.BoardSourceClient); err != nil {
				logging.Warn("Board warm-up failed", "airport_id", *sel.AirportID, "error", err.Error())
			}
		}
	}

	logging.Debug("Store refreshed",
		"generation", snap.Generation,
		"flights", len(snap.Flights),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// RunScheduled runs the job every interval until ctx is cancelled.
func (j *StoreRefreshJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Warn("Scheduled store refresh failed", "error", err.Error())
			}
		case <-ctx.Done():
			logging.Info("Shutting down store refresh")
			return
		}
	}
}
