package jobs

import (
	"context"
	"time"
)

// InitializeJobs starts the background refresh. It returns nil when
// interval is zero.
func InitializeJobs(ctx context.Context, interval time.Duration, s Loader, b BoardWarmer) *StoreRefreshJob {
	if interval <= 0 {
		return nil
	}

	job := NewStoreRefreshJob(s, b)
	go job.RunScheduled(ctx, interval)
	return job
}
