package worker

import (
	"context"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker background job running until ctx is done
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker runs a job on a cron schedule, a tick still running when the
// next one fires is skipped
type TickWorker struct {
	Schedule string
}

// StartTick blocks running onTick on schedule until ctx is done
func (w *TickWorker) StartTick(ctx context.Context, onTick func(ctx context.Context) error) error {
	log := logger.FromContext(ctx)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.Schedule, func() {
		if err := onTick(ctx); err != nil {
			log.WithError(err).Errorln("tick")
		}
	}); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
