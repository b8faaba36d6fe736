package cmd

import (
	"context"
	"time"

	"twapvault/core"
	"twapvault/pkg/sysversion"
	"twapvault/service/oracle"
	"twapvault/worker"
	"twapvault/worker/monitor"
	"twapvault/worker/priceoracle"
	"twapvault/worker/sweeper"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

type application struct {
	db     *db.DB
	system *core.System
	oracle *oracle.Oracle
	ledger core.ILedgerService
}

func provideApplication(ctx context.Context) *application {
	database := provideDatabase()
	if database != nil {
		checkSysVersion(ctx, database)
	}

	system := provideSystem()
	o := provideOracle(ctx, providePriceSource(), provideOracleStore(database), system)

	return &application{
		db:     database,
		system: system,
		oracle: o,
		ledger: provideLedger(provideLedgerStore(database), o, system),
	}
}

// checkSysVersion a database behind the current schema needs `twapvault migrate` first
func checkSysVersion(ctx context.Context, database *db.DB) {
	v, err := sysversion.ReadSysVersion(ctx, providePropertyStore(database))
	if err != nil {
		panic(err)
	}

	if v < sysversion.Current {
		logger.FromContext(ctx).WithField("sysversion", v).Fatalln("database not migrated, run migrate")
	}
}

func (app *application) Close() {
	if app.db != nil {
		app.db.Close()
	}
}

func provideWorkers(app *application) []worker.Worker {
	workers := []worker.Worker{
		priceoracle.New(app.oracle, seconds(cfg.Workers.KeeperInterval)),
		monitor.New(app.ledger, seconds(cfg.Workers.MonitorInterval)),
	}

	// sweeping is an admin operation, the first admin runs it
	if len(cfg.Admins) > 0 {
		workers = append(workers, sweeper.New(app.ledger, cfg.Admins[0], cfg.Workers.SweepBatch, seconds(cfg.Workers.SweepInterval)))
	}

	return workers
}

func seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}
