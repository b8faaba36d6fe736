package config

import (
	"fmt"

	"twapvault/core"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file, TWAPVAULT_ prefixed env vars override its values
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("TWAPVAULT")
	if err := configUtil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaults(config)
	return validate(config)
}

func validate(cfg *core.Config) error {
	if cfg.App.Vault == "" {
		return fmt.Errorf("config: app.vault is required")
	}

	if cfg.Pool.RPC != "" {
		if !govalidator.IsURL(cfg.Pool.RPC) {
			return fmt.Errorf("config: pool.rpc %q is not an url", cfg.Pool.RPC)
		}

		if cfg.Pool.Address == "" {
			return fmt.Errorf("config: pool.address is required with pool.rpc")
		}
	}

	if cfg.Assets.Endpoint != "" && !govalidator.IsURL(cfg.Assets.Endpoint) {
		return fmt.Errorf("config: assets.endpoint %q is not an url", cfg.Assets.Endpoint)
	}

	for _, v := range []string{
		cfg.Ledger.LTVMax,
		cfg.Ledger.LiquidationThreshold,
		cfg.Ledger.LiquidationBonus,
		cfg.Ledger.MaxCollateral,
		cfg.Ledger.MaxDebt,
		cfg.Oracle.MinPrice,
		cfg.Oracle.MaxPrice,
		cfg.Oracle.MaxChange,
		cfg.Pool.StaticLiquidity,
	} {
		if v != "" && !govalidator.IsFloat(v) {
			return fmt.Errorf("config: %q is not a decimal", v)
		}
	}

	for _, seed := range cfg.Assets.Seed {
		if seed.Account == "" {
			return fmt.Errorf("config: assets.seed entry without account")
		}

		for _, v := range []string{seed.Collateral, seed.Borrow} {
			if v != "" && !govalidator.IsFloat(v) {
				return fmt.Errorf("config: assets.seed %s: %q is not a decimal", seed.Account, v)
			}
		}
	}

	if v := cfg.Oracle.MinLiquidity; v != "" && !govalidator.IsInt(v) {
		return fmt.Errorf("config: oracle.min_liquidity %q is not an integer", v)
	}

	return nil
}
