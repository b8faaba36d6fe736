package memory

import (
	"context"
	"errors"
	"testing"

	"twapvault/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRollback(t *testing.T) {
	ctx := context.Background()
	store := New()

	boom := errors.New("boom")
	err := store.Tx(ctx, func(tx core.LedgerTx) error {
		p, _ := tx.FindPosition("alice")
		p.Collateral = decimal.NewFromInt(10)
		require.NoError(t, tx.SavePosition(p))
		require.NoError(t, tx.AddToRegistry("alice"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_ = store.View(ctx, func(tx core.LedgerTx) error {
		p, _ := tx.FindPosition("alice")
		assert.True(t, p.Collateral.IsZero())
		assert.EqualValues(t, 0, p.Version)

		in, _ := tx.InRegistry("alice")
		assert.False(t, in)
		return nil
	})
}

func TestViewIsReadOnly(t *testing.T) {
	store := New()
	err := store.View(context.Background(), func(tx core.LedgerTx) error {
		return tx.AddToRegistry("alice")
	})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestRegistrySwapWithLast(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Tx(ctx, func(tx core.LedgerTx) error {
		for _, a := range []string{"a", "b", "c", "d"} {
			if err := tx.AddToRegistry(a); err != nil {
				return err
			}
		}
		// duplicates are ignored
		return tx.AddToRegistry("b")
	}))

	require.NoError(t, store.Tx(ctx, func(tx core.LedgerTx) error {
		return tx.RemoveFromRegistry("b")
	}))

	_ = store.View(ctx, func(tx core.LedgerTx) error {
		list, _ := tx.Registry()
		assert.Equal(t, []string{"a", "d", "c"}, list)
		return nil
	})

	require.NoError(t, store.Tx(ctx, func(tx core.LedgerTx) error {
		if err := tx.RemoveFromRegistry("c"); err != nil {
			return err
		}
		return tx.RemoveFromRegistry("missing")
	}))

	_ = store.View(ctx, func(tx core.LedgerTx) error {
		list, _ := tx.Registry()
		assert.Equal(t, []string{"a", "d"}, list)
		return nil
	})
}

func TestOptimisticLock(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Tx(ctx, func(tx core.LedgerTx) error {
		p, _ := tx.FindPosition("alice")
		stale := *p
		require.NoError(t, tx.SavePosition(p))
		return tx.SavePosition(&stale)
	})
	assert.ErrorIs(t, err, core.ErrOptimisticLock)
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Tx(ctx, func(tx core.LedgerTx) error {
		return tx.CreateEvents(
			&core.Event{Type: core.EventDeposit, Account: "alice"},
			&core.Event{Type: core.EventDeposit, Account: "bob"},
			&core.Event{Type: core.EventBorrow, Account: "alice"},
		)
	}))

	_ = store.View(ctx, func(tx core.LedgerTx) error {
		all, _ := tx.ListEvents("", 0, 0)
		assert.Len(t, all, 3)
		assert.EqualValues(t, 3, all[2].ID)

		alice, _ := tx.ListEvents("alice", 1, 10)
		require.Len(t, alice, 1)
		assert.Equal(t, core.EventBorrow, alice[0].Type)

		page, _ := tx.ListEvents("", 0, 2)
		assert.Len(t, page, 2)
		return nil
	})
}

func TestViewDuringTx(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Tx(ctx, func(tx core.LedgerTx) error {
		p, _ := tx.FindPosition("alice")
		p.Collateral = decimal.NewFromInt(10)
		require.NoError(t, tx.SavePosition(p))

		// readers get the committed state without waiting on the writer
		return store.View(ctx, func(view core.LedgerTx) error {
			committed, err := view.FindPosition("alice")
			require.NoError(t, err)
			assert.True(t, committed.Collateral.IsZero())
			return nil
		})
	}))

	_ = store.View(ctx, func(tx core.LedgerTx) error {
		p, _ := tx.FindPosition("alice")
		assert.Equal(t, "10", p.Collateral.String())
		return nil
	})
}
