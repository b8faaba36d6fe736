package asset

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"twapvault/core"
	"twapvault/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

type custodyService struct {
	endpoint string
	assetID  string
	vault    string
}

// NewCustody asset service backed by a custody REST api
func NewCustody(endpoint, assetID, vault string) core.AssetService {
	return &custodyService{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		assetID:  assetID,
		vault:    vault,
	}
}

type transferRequest struct {
	TraceID string          `json:"trace_id"`
	AssetID string          `json:"asset_id"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Amount  decimal.Decimal `json:"amount"`
}

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

func (s *custodyService) TransferFrom(ctx context.Context, owner, to string, amount decimal.Decimal) error {
	return s.transfer(ctx, "/transfers/pull", owner, to, amount)
}

func (s *custodyService) Transfer(ctx context.Context, to string, amount decimal.Decimal) error {
	return s.transfer(ctx, "/transfers", s.vault, to, amount)
}

func (s *custodyService) transfer(ctx context.Context, path, from, to string, amount decimal.Decimal) error {
	req := transferRequest{
		TraceID: uuid.New(),
		AssetID: s.assetID,
		From:    from,
		To:      to,
		Amount:  amount,
	}

	log := logger.FromContext(ctx).WithField("trace_id", req.TraceID)
	status, err := resthttp.Execute(resthttp.WithRequestID(ctx, req.TraceID), http.MethodPost, s.endpoint+path, req, nil)
	if err != nil {
		log.WithError(err).Errorln("custody transfer", status)
		return fmt.Errorf("custody %s: %w: %w", path, core.ErrTransferFailed, err)
	}

	return nil
}

func (s *custodyService) BalanceOf(ctx context.Context, holder string) (decimal.Decimal, error) {
	var resp balanceResponse
	url := fmt.Sprintf("%s/balances/%s?asset_id=%s", s.endpoint, holder, s.assetID)
	if _, err := resthttp.Execute(resthttp.Request(ctx), http.MethodGet, url, nil, &resp); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("custody balance")
		return decimal.Zero, err
	}

	return resp.Balance, nil
}
