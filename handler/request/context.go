package request

import (
	"context"
)

type key int

const (
	callerKey key = iota
)

type ContextX struct {
	context.Context
}

// NewContext context extension
func NewContext(ctx context.Context) ContextX {
	return ContextX{
		Context: ctx,
	}
}

// WithCaller context with the authenticated account
func (c ContextX) WithCaller(account string) context.Context {
	return context.WithValue(c, callerKey, account)
}

// GetCaller get the authenticated account from context
func (c ContextX) GetCaller() (string, bool) {
	account, ok := c.Value(callerKey).(string)
	return account, ok && account != ""
}
