package tasks

import (
	"fmt"

	"github.com/toshokan/toshokan/internal/config"
	"github.com/toshokan/toshokan/internal/feedsync"
	"github.com/toshokan/toshokan/internal/scheduler"
)

const FeedSyncTaskID = "feed-sync"

func buildFeedSyncCronExpr(intervalMin int) string {
	if intervalMin <= 0 {
		intervalMin = 15
	}
	return fmt.Sprintf("*/%d * * * *", intervalMin)
}

// RegisterFeedSyncTask registers the latest-listing sync with the scheduler.
func RegisterFeedSyncTask(sched *scheduler.Scheduler, service *feedsync.Service, cfg *config.FeedConfig) error {
	if !cfg.Enabled {
		return nil
	}

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          FeedSyncTaskID,
		Name:        "Feed Sync",
		Description: "Poll the latest listing and remember newly listed releases",
		Cron:        buildFeedSyncCronExpr(cfg.IntervalMin),
		RunOnStart:  true,
		Func:        service.Run,
	})
}
