package core

// Asset collateral asset bound to its price feed
type Asset struct {
	AssetID  string `json:"asset_id"`
	OracleID string `json:"oracle_id"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals uint8  `json:"decimals"`
}

// ITokenRegistry resolves collateral token collaborators by asset id
type ITokenRegistry interface {
	Token(assetID string) (ICollateralToken, bool)
}

// IOracleRegistry resolves price feed collaborators by oracle id
type IOracleRegistry interface {
	Feed(oracleID string) (IPriceFeed, bool)
}

// TokenMap map backed ITokenRegistry
type TokenMap map[string]ICollateralToken

// Token implements ITokenRegistry
func (m TokenMap) Token(assetID string) (ICollateralToken, bool) {
	t, ok := m[assetID]
	return t, ok
}

// FeedMap map backed IOracleRegistry
type FeedMap map[string]IPriceFeed

// Feed implements IOracleRegistry
func (m FeedMap) Feed(oracleID string) (IPriceFeed, bool) {
	f, ok := m[oracleID]
	return f, ok
}
