package asset

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"twapvault/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustody(t *testing.T) {
	var transfers []transferRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/transfers/pull", func(w http.ResponseWriter, r *http.Request) {
		var req transferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, req.TraceID, r.Header.Get("X-Request-Id"))

		if req.Amount.GreaterThan(decimal.NewFromInt(100)) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":1,"msg":"insufficient balance"}`))
			return
		}

		transfers = append(transfers, req)
	})
	mux.HandleFunc("/transfers", func(w http.ResponseWriter, r *http.Request) {
		var req transferRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		transfers = append(transfers, req)
	})
	mux.HandleFunc("/balances/vault", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "usdc", r.URL.Query().Get("asset_id"))
		_, _ = w.Write([]byte(`{"balance":"12.5"}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	custody := NewCustody(srv.URL+"/", "usdc", "vault")

	require.NoError(t, custody.TransferFrom(ctx, "alice", "vault", decimal.NewFromInt(10)))
	require.NoError(t, custody.Transfer(ctx, "bob", decimal.NewFromInt(3)))

	err := custody.TransferFrom(ctx, "alice", "vault", decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, core.ErrTransferFailed)

	require.Len(t, transfers, 2)
	assert.Equal(t, "alice", transfers[0].From)
	assert.Equal(t, "vault", transfers[1].From)
	assert.Equal(t, "bob", transfers[1].To)
	assert.NotEqual(t, transfers[0].TraceID, transfers[1].TraceID)

	balance, err := custody.BalanceOf(ctx, "vault")
	require.NoError(t, err)
	assert.Equal(t, "12.5", balance.String())
}
