package cmd

import (
	"context"
	"fmt"
	"time"

	"twapvault/core"
	"twapvault/pkg/lending"
	"twapvault/pkg/number"
	"twapvault/service/asset"
	"twapvault/service/ledger"
	"twapvault/service/oracle"
	"twapvault/service/pool"

	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
)

func provideConfig() *core.Config {
	return &cfg
}

func provideSystem() *core.System {
	return &core.System{
		Admins:  cfg.Admins,
		Vault:   cfg.App.Vault,
		Version: version,
	}
}

func providePriceSource() core.PriceSource {
	if cfg.Pool.RPC == "" {
		liquidity, err := uint256.FromDecimal(cfg.Pool.StaticLiquidity)
		if err != nil {
			panic(fmt.Errorf("pool.static_liquidity: %w", err))
		}

		logrus.Warnln("no pool rpc configured, using a static pool at tick", cfg.Pool.StaticTick)
		return pool.NewStatic(cfg.Pool.StaticTick, liquidity)
	}

	client, err := pool.Dial(cfg.Pool.RPC)
	if err != nil {
		panic(err)
	}

	source, err := pool.NewUniswap(client, cfg.Pool.Address)
	if err != nil {
		panic(err)
	}

	return pool.Cache(source, time.Duration(cfg.Pool.CacheTTLSeconds)*time.Second)
}

func provideOracleConfig() oracle.Config {
	c := oracle.DefaultConfig()
	if cfg.Oracle.WindowSeconds > 0 {
		c.Window = cfg.Oracle.WindowSeconds
	}

	if cfg.Oracle.HeartbeatSeconds > 0 {
		c.Heartbeat = time.Duration(cfg.Oracle.HeartbeatSeconds) * time.Second
	}

	var err error
	if c.MinPrice, err = number.Parse(cfg.Oracle.MinPrice, c.MinPrice); err != nil {
		panic(err)
	}

	if c.MaxPrice, err = number.Parse(cfg.Oracle.MaxPrice, c.MaxPrice); err != nil {
		panic(err)
	}

	if c.MaxChange, err = number.Parse(cfg.Oracle.MaxChange, c.MaxChange); err != nil {
		panic(err)
	}

	if v := cfg.Oracle.MinLiquidity; v != "" {
		if c.MinLiquidity, err = uint256.FromDecimal(v); err != nil {
			panic(fmt.Errorf("oracle.min_liquidity: %w", err))
		}
	}

	return c
}

func provideOracle(ctx context.Context, source core.PriceSource, store core.OracleStore, system *core.System) *oracle.Oracle {
	o, err := oracle.New(ctx, source, store, system, provideOracleConfig())
	if err != nil {
		panic(err)
	}

	return o
}

// provideAssets collateral and borrowed asset services
func provideAssets() (core.AssetService, core.AssetService) {
	if cfg.Assets.Endpoint == "" {
		logrus.Warnln("no custody endpoint configured, using in-memory tokens")
		collateral, borrowed := asset.NewToken("COLLATERAL", cfg.App.Vault), asset.NewToken("BORROW", cfg.App.Vault)
		for _, seed := range cfg.Assets.Seed {
			collateral.Fund(seed.Account, number.Decimal(seed.Collateral))
			borrowed.Fund(seed.Account, number.Decimal(seed.Borrow))
		}

		if len(cfg.Assets.Seed) == 0 {
			logrus.Warnln("no assets.seed configured, in-memory tokens start empty")
		}

		return collateral, borrowed
	}

	return asset.NewCustody(cfg.Assets.Endpoint, cfg.Assets.CollateralAssetID, cfg.App.Vault),
		asset.NewCustody(cfg.Assets.Endpoint, cfg.Assets.BorrowAssetID, cfg.App.Vault)
}

func provideLedgerConfig() ledger.Config {
	defaults := lending.DefaultParams()
	params := lending.Params{
		SeizeMode: lending.ParseSeizeMode(cfg.Ledger.SeizeMode),
	}

	var err error
	if params.LTVMax, err = number.Parse(cfg.Ledger.LTVMax, defaults.LTVMax); err != nil {
		panic(err)
	}

	if params.LiquidationThreshold, err = number.Parse(cfg.Ledger.LiquidationThreshold, defaults.LiquidationThreshold); err != nil {
		panic(err)
	}

	if params.LiquidationBonus, err = number.Parse(cfg.Ledger.LiquidationBonus, defaults.LiquidationBonus); err != nil {
		panic(err)
	}

	if params.MaxCollateral, err = number.Parse(cfg.Ledger.MaxCollateral, defaults.MaxCollateral); err != nil {
		panic(err)
	}

	if params.MaxDebt, err = number.Parse(cfg.Ledger.MaxDebt, defaults.MaxDebt); err != nil {
		panic(err)
	}

	return ledger.Config{
		Params:         params,
		Vault:          cfg.App.Vault,
		StrictRegistry: cfg.Ledger.StrictRegistry,
	}
}

func provideLedger(store core.LedgerStore, prices core.IPriceReader, system *core.System) core.ILedgerService {
	collateral, borrowed := provideAssets()
	return ledger.New(store, prices, collateral, borrowed, system, provideLedgerConfig())
}
