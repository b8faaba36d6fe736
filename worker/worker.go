package worker

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker runs until ctx is done
type Worker interface {
	Run(ctx context.Context) error
}

// OnWork one round of a job
type OnWork func(ctx context.Context) error

// BaseJob cron scheduled job, a round still running when the next one fires is skipped
type BaseJob struct {
	Name     string
	Interval time.Duration
	Cron     *cron.Cron
	OnWork   OnWork
}

// NewBaseJob schedule onWork every interval
func NewBaseJob(name string, interval time.Duration, onWork OnWork) BaseJob {
	return BaseJob{
		Name:     name,
		Interval: interval,
		Cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		OnWork:   onWork,
	}
}

// Run start the schedule and block until ctx is done
func (job *BaseJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", job.Name)
	ctx = logger.WithContext(ctx, log)

	if _, err := job.Cron.AddFunc("@every "+job.Interval.String(), func() {
		_ = job.Round(ctx)
	}); err != nil {
		return err
	}

	job.Cron.Start()
	log.WithField("interval", job.Interval).Infoln("started")

	<-ctx.Done()

	// waits for a running round
	<-job.Cron.Stop().Done()
	log.Infoln("stopped")
	return nil
}

// Round run OnWork once
func (job *BaseJob) Round(ctx context.Context) error {
	if err := job.OnWork(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("round failed")
		return err
	}

	return nil
}
