package monitor

import (
	"context"
	"sync"
	"time"

	"twapvault/core"
	"twapvault/pkg/concurrency"
	"twapvault/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker keeps the liquidation registry in step with fresh health factors
type Worker struct {
	worker.BaseJob
	ledger core.ILedgerService
	limit  *concurrency.GoLimit
}

// New new registry monitor worker
func New(ledger core.ILedgerService, interval time.Duration) *Worker {
	w := &Worker{
		ledger: ledger,
		limit:  concurrency.NewGoLimit(16),
	}
	w.BaseJob = worker.NewBaseJob("monitor", interval, w.onWork)
	return w
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	borrowers, err := w.ledger.Borrowers(ctx)
	if err != nil {
		log.WithError(err).Errorln("ledger.Borrowers")
		return err
	}

	registry, err := w.ledger.Registry(ctx)
	if err != nil {
		log.WithError(err).Errorln("ledger.Registry")
		return err
	}

	indexed := make(map[string]bool, len(registry))
	for _, account := range registry {
		indexed[account] = true
	}

	stale := make([]string, 0)

	var mu sync.Mutex
	concurrency.Await(ctx, w.limit, len(borrowers), func(ctx context.Context, i int) {
		account := borrowers[i]
		liquidatable, err := w.ledger.IsLiquidatable(ctx, account)
		if err != nil {
			log.WithError(err).WithField("account", account).Debugln("ledger.IsLiquidatable")
			return
		}

		if liquidatable != indexed[account] {
			mu.Lock()
			stale = append(stale, account)
			mu.Unlock()
		}
	})

	hasDebt := make(map[string]bool, len(borrowers))
	for _, account := range borrowers {
		hasDebt[account] = true
	}

	// indexed accounts without debt are always stale
	for _, account := range registry {
		if !hasDebt[account] {
			stale = append(stale, account)
		}
	}

	// writes are serialized by the ledger
	for _, account := range stale {
		member, err := w.ledger.UpdateLiquidationStatus(ctx, account)
		if err != nil {
			log.WithError(err).WithField("account", account).Warnln("ledger.UpdateLiquidationStatus")
			continue
		}

		log.WithField("account", account).WithField("member", member).Infoln("registry updated")
	}

	return nil
}
