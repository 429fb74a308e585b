package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config dsc config
type Config struct {
	DB          db.Config     `json:"db"`
	Engine      Engine        `json:"engine"`
	PriceOracle PriceOracle   `json:"price_oracle"`
	Server      Server        `json:"server"`
	Session     SessionConfig `json:"session"`
	Admins      []string      `json:"admins"`
}

// IsAdmin check if the account is admin
func (c *Config) IsAdmin(account string) bool {
	for _, a := range c.Admins {
		if a == account {
			return true
		}
	}

	return false
}

// Engine engine deployment
type Engine struct {
	// Address account of the engine, it owns the debt token
	Address     string       `json:"address" valid:"required"`
	Collaterals []Collateral `json:"collaterals" valid:"required"`
}

// Collateral one registered collateral asset with its in-memory token and feed
type Collateral struct {
	Symbol   string `json:"symbol" valid:"required"`
	AssetID  string `json:"asset_id" valid:"required"`
	OracleID string `json:"oracle_id" valid:"required"`
	Decimals uint8  `json:"decimals"`
	// Price initial usd price
	Price string `json:"price" valid:"required,float"`
}

// PriceOracle price oracle config
type PriceOracle struct {
	EndPoint string `json:"end_point"`
	// Interval between price pulls, a duration string like 30s
	Interval string `json:"interval"`
	// CacheTTL seconds a pulled ticker is reused
	CacheTTL int64 `json:"cache_ttl"`
	// MaxStaleness seconds after which an answer is rejected, 0 trusts every answer
	MaxStaleness int64 `json:"max_staleness"`
}

// Server api server config
type Server struct {
	Port int `json:"port"`
}

// SessionConfig access token config
type SessionConfig struct {
	// Secret HS256 key of access tokens, empty rejects every authenticated call
	Secret string `json:"secret"`
}
