package sweeper

import (
	"context"
	"time"

	"twapvault/core"
	"twapvault/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker drops recovered accounts from the liquidation registry in batches
type Worker struct {
	worker.BaseJob
	ledger core.ILedgerService
	caller string
	batch  int
}

// New new sweeper, caller must be an admin
func New(ledger core.ILedgerService, caller string, batch int, interval time.Duration) *Worker {
	w := &Worker{
		ledger: ledger,
		caller: caller,
		batch:  batch,
	}
	w.BaseJob = worker.NewBaseJob("sweeper", interval, w.onWork)
	return w
}

func (w *Worker) onWork(ctx context.Context) error {
	removed, err := w.ledger.SweepRegistry(ctx, w.caller, w.batch)
	if err != nil {
		if core.CodeOf(err).Category() == core.CategoryOracle {
			logger.FromContext(ctx).WithError(err).Warnln("sweep skipped")
			return nil
		}

		return err
	}

	if removed > 0 {
		logger.FromContext(ctx).WithField("removed", removed).Infoln("registry swept")
	}

	return nil
}
