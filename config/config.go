package config

import (
	"time"

	"dsc/core"

	"github.com/asaskevich/govalidator"
	configUtil "github.com/fox-one/pkg/config"
)

// Load load config file, an empty configFile loads the defaults and
// environment only
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("DSC")
	if configFile != "" {
		if err := configUtil.LoadYaml(configFile, config); err != nil {
			return err
		}
	}

	defaultEngine(config)
	defaultPriceOracle(config)
	defaultServer(config)

	if _, err := govalidator.ValidateStruct(config); err != nil {
		return err
	}

	if _, err := time.ParseDuration(config.PriceOracle.Interval); err != nil {
		return err
	}

	return nil
}

func defaultEngine(cfg *core.Config) {
	if cfg.Engine.Address == "" {
		cfg.Engine.Address = "dsc-engine"
	}

	if len(cfg.Engine.Collaterals) == 0 {
		cfg.Engine.Collaterals = []core.Collateral{
			{Symbol: "WETH", AssetID: "weth", OracleID: "eth-usd", Decimals: 18, Price: "2000"},
			{Symbol: "WBTC", AssetID: "wbtc", OracleID: "btc-usd", Decimals: 8, Price: "30000"},
		}
	}
}

func defaultPriceOracle(cfg *core.Config) {
	if cfg.PriceOracle.Interval == "" {
		cfg.PriceOracle.Interval = "30s"
	}

	if cfg.PriceOracle.CacheTTL <= 0 {
		cfg.PriceOracle.CacheTTL = 10
	}
}

func defaultServer(cfg *core.Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9000
	}
}
