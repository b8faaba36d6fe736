package ledger

import (
	"context"
	"errors"

	"twapvault/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

const marketID = 1

var errReadOnly = errors.New("ledger store: write in read-only view")

type ledgerStore struct {
	db *db.DB
}

// New new ledger store
func New(db *db.DB) core.LedgerStore {
	return &ledgerStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		for _, model := range []interface{}{core.Position{}, core.Market{}, core.RegistryEntry{}, core.Event{}} {
			if err := tx.AutoMigrate(model).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *ledgerStore) Tx(ctx context.Context, fn func(tx core.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Tx(func(tx *db.DB) error {
		return fn(&ledgerTx{db: tx.Update()})
	})
}

func (s *ledgerStore) View(ctx context.Context, fn func(tx core.LedgerTx) error) error {
	return fn(&ledgerTx{db: s.db.View(), readonly: true})
}

type ledgerTx struct {
	db       *gorm.DB
	readonly bool
}

func (t *ledgerTx) FindPosition(account string) (*core.Position, error) {
	var position core.Position
	if err := t.db.Where("account = ?", account).First(&position).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Position{
				Account:              account,
				Collateral:           decimal.Zero,
				Debt:                 decimal.Zero,
				AccruedInterestTotal: decimal.Zero,
			}, nil
		}

		return nil, err
	}

	return &position, nil
}

func (t *ledgerTx) SavePosition(position *core.Position) error {
	if t.readonly {
		return errReadOnly
	}

	if position.Version == 0 {
		position.Version = 1
		return t.db.Create(position).Error
	}

	version := position.Version
	position.Version++
	tx := t.db.Model(core.Position{}).
		Where("account = ? AND version = ?", position.Account, version).
		Updates(map[string]interface{}{
			"collateral":             position.Collateral,
			"debt":                   position.Debt,
			"last_accrued":           position.LastAccrued,
			"accrued_interest_total": position.AccruedInterestTotal,
			"version":                position.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (t *ledgerTx) Positions() ([]*core.Position, error) {
	var positions []*core.Position
	if err := t.db.Order("account").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (t *ledgerTx) FindMarket() (*core.Market, error) {
	var market core.Market
	if err := t.db.Where("id = ?", marketID).First(&market).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Market{
				ID:              marketID,
				TotalCollateral: decimal.Zero,
				TotalDebt:       decimal.Zero,
			}, nil
		}

		return nil, err
	}

	return &market, nil
}

func (t *ledgerTx) SaveMarket(market *core.Market) error {
	if t.readonly {
		return errReadOnly
	}

	market.ID = marketID
	if market.Version == 0 {
		market.Version = 1
		return t.db.Create(market).Error
	}

	version := market.Version
	market.Version++
	tx := t.db.Model(core.Market{}).
		Where("id = ? AND version = ?", marketID, version).
		Updates(map[string]interface{}{
			"total_collateral": market.TotalCollateral,
			"total_debt":       market.TotalDebt,
			"version":          market.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (t *ledgerTx) InRegistry(account string) (bool, error) {
	var count int
	if err := t.db.Model(core.RegistryEntry{}).Where("account = ?", account).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (t *ledgerTx) AddToRegistry(account string) error {
	if t.readonly {
		return errReadOnly
	}

	if in, err := t.InRegistry(account); err != nil || in {
		return err
	}

	var size int64
	if err := t.db.Model(core.RegistryEntry{}).Count(&size).Error; err != nil {
		return err
	}

	return t.db.Create(&core.RegistryEntry{Account: account, Idx: size}).Error
}

func (t *ledgerTx) RemoveFromRegistry(account string) error {
	if t.readonly {
		return errReadOnly
	}

	var entry core.RegistryEntry
	if err := t.db.Where("account = ?", account).First(&entry).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil
		}

		return err
	}

	var last core.RegistryEntry
	if err := t.db.Order("idx DESC").First(&last).Error; err != nil {
		return err
	}

	if err := t.db.Where("account = ?", account).Delete(core.RegistryEntry{}).Error; err != nil {
		return err
	}

	if last.Account == account {
		return nil
	}

	return t.db.Model(core.RegistryEntry{}).
		Where("account = ?", last.Account).
		Update("idx", entry.Idx).Error
}

func (t *ledgerTx) Registry() ([]string, error) {
	var entries []*core.RegistryEntry
	if err := t.db.Order("idx").Find(&entries).Error; err != nil {
		return nil, err
	}

	accounts := make([]string, len(entries))
	for i, e := range entries {
		accounts[i] = e.Account
	}

	return accounts, nil
}

func (t *ledgerTx) CreateEvents(events ...*core.Event) error {
	if t.readonly {
		return errReadOnly
	}

	for _, e := range events {
		if err := t.db.Create(e).Error; err != nil {
			return err
		}
	}

	return nil
}

func (t *ledgerTx) ListEvents(account string, fromID int64, limit int) ([]*core.Event, error) {
	query := t.db.Where("id > ?", fromID)
	if account != "" {
		query = query.Where("account = ?", account)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []*core.Event
	if err := query.Order("id").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}
