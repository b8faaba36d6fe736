package config

import (
	"os"
	"path/filepath"
	"testing"

	"twapvault/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, content string) string {
	t.Helper()

	name := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(name, []byte(content), 0o600))
	return name
}

func TestLoad(t *testing.T) {
	name := write(t, `
app:
  vault: vault
ledger:
  ltv_max: "0.7"
  seize_mode: nominal
oracle:
  window_seconds: 600
  min_liquidity: "1000"
pool:
  static_tick: 69082
assets:
  seed:
    - account: vault
      borrow: "1000000"
    - account: alice
      collateral: "10"
admins:
  - admin
`)

	var cfg core.Config
	require.NoError(t, Load(name, &cfg))
	assert.Equal(t, "vault", cfg.App.Vault)
	assert.Equal(t, "0.7", cfg.Ledger.LTVMax)
	assert.Equal(t, "nominal", cfg.Ledger.SeizeMode)
	assert.Equal(t, uint32(600), cfg.Oracle.WindowSeconds)
	assert.Equal(t, int32(69082), cfg.Pool.StaticTick)
	assert.Equal(t, []string{"admin"}, cfg.Admins)
	assert.Equal(t, 100, cfg.Workers.SweepBatch)
	assert.Equal(t, []core.Seed{
		{Account: "vault", Borrow: "1000000"},
		{Account: "alice", Collateral: "10"},
	}, cfg.Assets.Seed)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"missing vault": `
ledger:
  ltv_max: "0.7"
`,
		"bad rpc": `
app:
  vault: vault
pool:
  rpc: "not a url"
  address: "0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8"
`,
		"rpc without address": `
app:
  vault: vault
pool:
  rpc: "https://eth.example.com"
`,
		"seed without account": `
app:
  vault: vault
assets:
  seed:
    - collateral: "10"
`,
		"bad seed amount": `
app:
  vault: vault
assets:
  seed:
    - account: alice
      collateral: "ten"
`,
		"bad decimal": `
app:
  vault: vault
ledger:
  ltv_max: "seventy"
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			var cfg core.Config
			assert.Error(t, Load(write(t, content), &cfg))
		})
	}
}
