package cmd

import (
	"twapvault/core"
	"twapvault/store/ledger"
	"twapvault/store/memory"
	"twapvault/store/oraclestate"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

// provideDatabase nil when no dialect is configured, the stores stay in memory then
func provideDatabase() *db.DB {
	if cfg.DB.Dialect == "" {
		return nil
	}

	return db.MustOpen(cfg.DB)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideLedgerStore(db *db.DB) core.LedgerStore {
	if db == nil {
		return memory.New()
	}

	return ledger.New(db)
}

func provideOracleStore(db *db.DB) core.OracleStore {
	if db == nil {
		return oraclestate.NewMemory()
	}

	return oraclestate.New(providePropertyStore(db))
}
