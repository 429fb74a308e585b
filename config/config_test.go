package config

import (
	"os"
	"path/filepath"
	"testing"

	"dsc/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg core.Config
	require.NoError(t, Load("", &cfg))

	assert.Equal(t, "dsc-engine", cfg.Engine.Address)
	require.Len(t, cfg.Engine.Collaterals, 2)
	assert.Equal(t, uint8(8), cfg.Engine.Collaterals[1].Decimals)
	assert.Equal(t, "30s", cfg.PriceOracle.Interval)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadYaml(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dsc.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
engine:
  address: engine
  collaterals:
    - symbol: WETH
      asset_id: weth
      oracle_id: eth-usd
      decimals: 18
      price: "1850.5"
price_oracle:
  interval: 1m
  max_staleness: 3600
admins:
  - root
`), 0o600))

	var cfg core.Config
	require.NoError(t, Load(file, &cfg))

	assert.Equal(t, "engine", cfg.Engine.Address)
	require.Len(t, cfg.Engine.Collaterals, 1)
	assert.Equal(t, "1850.5", cfg.Engine.Collaterals[0].Price)
	assert.Equal(t, int64(3600), cfg.PriceOracle.MaxStaleness)
	assert.True(t, cfg.IsAdmin("root"))
	assert.False(t, cfg.IsAdmin("user"))
}

func TestLoadInvalid(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dsc.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
engine:
  collaterals:
    - symbol: WETH
      asset_id: weth
      oracle_id: eth-usd
      price: cheap
`), 0o600))

	var cfg core.Config
	assert.Error(t, Load(file, &cfg))
}
