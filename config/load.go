package config

import (
	"twapvault/core"
)

func defaults(cfg *core.Config) {
	if cfg.Workers.KeeperInterval <= 0 {
		cfg.Workers.KeeperInterval = 60
	}

	if cfg.Workers.MonitorInterval <= 0 {
		cfg.Workers.MonitorInterval = 30
	}

	if cfg.Workers.SweepInterval <= 0 {
		cfg.Workers.SweepInterval = 600
	}

	if cfg.Workers.SweepBatch <= 0 {
		cfg.Workers.SweepBatch = 100
	}

	if cfg.Pool.StaticLiquidity == "" {
		cfg.Pool.StaticLiquidity = "1000000000000000000"
	}
}
