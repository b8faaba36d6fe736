package priceoracle

import (
	"context"
	"time"

	"twapvault/core"
	"twapvault/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker commits the pool twap on a schedule so the heartbeat never lapses
type Worker struct {
	worker.BaseJob
	oracle core.IPriceOracle
}

// New new price keeper worker
func New(oracle core.IPriceOracle, interval time.Duration) *Worker {
	w := &Worker{oracle: oracle}
	w.BaseJob = worker.NewBaseJob("priceoracle", interval, w.onWork)
	return w
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	price, err := w.oracle.Poke(ctx)
	if err != nil {
		// a rejected twap keeps the last valid price, the admin has to step in
		if core.CodeOf(err).Category() == core.CategoryOracle {
			log.WithError(err).Warnln("oracle.Poke rejected")
			return nil
		}

		return err
	}

	log.WithField("price", price).Debugln("oracle poked")
	return nil
}
