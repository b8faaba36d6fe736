package views

import (
	"twapvault/core"

	"github.com/shopspring/decimal"
)

// Market market view
type Market struct {
	*core.Market
	// zero when the oracle rejects the price
	Price        decimal.Decimal `json:"price"`
	TVL          decimal.Decimal `json:"tvl"`
	Borrowers    int             `json:"borrowers"`
	RegistrySize int             `json:"registry_size"`
	OracleError  string          `json:"oracle_error,omitempty"`
}
