package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config twapvault config
type Config struct {
	App     App       `json:"app"`
	DB      db.Config `json:"db"`
	Ledger  Ledger    `json:"ledger"`
	Oracle  Oracle    `json:"oracle"`
	Pool    Pool      `json:"pool"`
	Assets  Assets    `json:"assets"`
	Workers Workers   `json:"workers"`
	Admins  []string  `json:"admins"`
}

// App app config
type App struct {
	// Vault account holding the deposited collateral and the lendable asset
	Vault string `json:"vault"`
}

// Ledger ledger risk parameters, decimals are strings
type Ledger struct {
	LTVMax               string `json:"ltv_max"`
	LiquidationThreshold string `json:"liquidation_threshold"`
	LiquidationBonus     string `json:"liquidation_bonus"`
	MaxCollateral        string `json:"max_collateral"`
	MaxDebt              string `json:"max_debt"`
	// "price" (default) or "nominal"
	SeizeMode string `json:"seize_mode"`
	// reject liquidation of accounts that are not indexed yet
	StrictRegistry bool `json:"strict_registry"`
}

// Oracle price oracle config
type Oracle struct {
	WindowSeconds    uint32 `json:"window_seconds"`
	HeartbeatSeconds int64  `json:"heartbeat_seconds"`
	MinPrice         string `json:"min_price"`
	MaxPrice         string `json:"max_price"`
	MaxChange        string `json:"max_change"`
	MinLiquidity     string `json:"min_liquidity"`
}

// Pool price source config, a static pool is used when RPC is empty
type Pool struct {
	RPC             string `json:"rpc"`
	Address         string `json:"address"`
	CacheTTLSeconds int64  `json:"cache_ttl_seconds"`
	StaticTick      int32  `json:"static_tick"`
	StaticLiquidity string `json:"static_liquidity"`
}

// Assets asset transfer config, in-memory tokens are used when Endpoint is empty
type Assets struct {
	Endpoint          string `json:"endpoint"`
	CollateralAssetID string `json:"collateral_asset_id"`
	BorrowAssetID     string `json:"borrow_asset_id"`
	// Seed balances minted into the in-memory tokens at startup
	Seed []Seed `json:"seed"`
}

// Seed starting balances of one account, approved to the vault
type Seed struct {
	Account    string `json:"account"`
	Collateral string `json:"collateral"`
	Borrow     string `json:"borrow"`
}

// Workers worker intervals in seconds
type Workers struct {
	KeeperInterval  int64 `json:"keeper_interval"`
	MonitorInterval int64 `json:"monitor_interval"`
	SweepInterval   int64 `json:"sweep_interval"`
	SweepBatch      int   `json:"sweep_batch"`
}
