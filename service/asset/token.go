package asset

import (
	"context"
	"fmt"
	"sync"

	"twapvault/core"

	"github.com/shopspring/decimal"
)

// TransferKind which call moved the funds
type TransferKind int

const (
	KindTransfer TransferKind = iota
	KindTransferFrom
)

// Movement one balance movement reported to the transfer hook
type Movement struct {
	Kind   TransferKind
	From   string
	To     string
	Amount decimal.Decimal
}

// Hook runs after the balances moved, an error reverts the movement
type Hook func(ctx context.Context, m Movement) error

// Token in-memory account based token, transfers are all or nothing
type Token struct {
	symbol string
	vault  string

	mu         sync.Mutex
	balances   map[string]decimal.Decimal
	allowances map[string]map[string]decimal.Decimal
	hook       Hook
}

var _ core.AssetService = (*Token)(nil)

// NewToken new token whose Transfer pays out of vault
func NewToken(symbol, vault string) *Token {
	return &Token{
		symbol:     symbol,
		vault:      vault,
		balances:   map[string]decimal.Decimal{},
		allowances: map[string]map[string]decimal.Decimal{},
	}
}

// Mint credit amount to holder
func (t *Token) Mint(holder string, amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.balances[holder] = t.balances[holder].Add(amount)
}

// Fund mint amount to holder and approve the vault to pull all of it
func (t *Token) Fund(holder string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}

	t.Mint(holder, amount)
	if holder != t.vault {
		t.Approve(holder, t.Allowance(holder).Add(amount))
	}
}

// Approve owner allows the vault to pull up to amount
func (t *Token) Approve(owner string, amount decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.allowances[owner] == nil {
		t.allowances[owner] = map[string]decimal.Decimal{}
	}
	t.allowances[owner][t.vault] = amount
}

// Allowance remaining allowance of owner to the vault
func (t *Token) Allowance(owner string) decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.allowances[owner][t.vault]
}

// OnTransfer install the hook called after every movement
func (t *Token) OnTransfer(hook Hook) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hook = hook
}

func (t *Token) TransferFrom(ctx context.Context, owner, to string, amount decimal.Decimal) error {
	t.mu.Lock()
	if !amount.IsPositive() {
		t.mu.Unlock()
		return t.fail("invalid amount")
	}

	allowance := t.allowances[owner][t.vault]
	if allowance.LessThan(amount) {
		t.mu.Unlock()
		return t.fail("insufficient allowance")
	}

	if err := t.move(owner, to, amount); err != nil {
		t.mu.Unlock()
		return err
	}
	t.allowances[owner][t.vault] = allowance.Sub(amount)
	hook := t.hook
	t.mu.Unlock()

	if err := t.callHook(ctx, hook, Movement{Kind: KindTransferFrom, From: owner, To: to, Amount: amount}); err != nil {
		t.mu.Lock()
		t.balances[to] = t.balances[to].Sub(amount)
		t.balances[owner] = t.balances[owner].Add(amount)
		t.allowances[owner][t.vault] = t.allowances[owner][t.vault].Add(amount)
		t.mu.Unlock()
		return err
	}

	return nil
}

func (t *Token) Transfer(ctx context.Context, to string, amount decimal.Decimal) error {
	t.mu.Lock()
	if !amount.IsPositive() {
		t.mu.Unlock()
		return t.fail("invalid amount")
	}

	if err := t.move(t.vault, to, amount); err != nil {
		t.mu.Unlock()
		return err
	}
	hook := t.hook
	t.mu.Unlock()

	if err := t.callHook(ctx, hook, Movement{Kind: KindTransfer, From: t.vault, To: to, Amount: amount}); err != nil {
		t.mu.Lock()
		t.balances[to] = t.balances[to].Sub(amount)
		t.balances[t.vault] = t.balances[t.vault].Add(amount)
		t.mu.Unlock()
		return err
	}

	return nil
}

func (t *Token) BalanceOf(_ context.Context, holder string) (decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.balances[holder], nil
}

// move caller holds mu
func (t *Token) move(from, to string, amount decimal.Decimal) error {
	if t.balances[from].LessThan(amount) {
		return t.fail("insufficient balance")
	}

	t.balances[from] = t.balances[from].Sub(amount)
	t.balances[to] = t.balances[to].Add(amount)
	return nil
}

func (t *Token) callHook(ctx context.Context, hook Hook, m Movement) error {
	if hook == nil {
		return nil
	}

	if err := hook(ctx, m); err != nil {
		return fmt.Errorf("token %s: callback: %w: %w", t.symbol, core.ErrTransferFailed, err)
	}

	return nil
}

func (t *Token) fail(reason string) error {
	return fmt.Errorf("token %s: %s: %w", t.symbol, reason, core.ErrTransferFailed)
}
