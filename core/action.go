package core

// ActionType top-level engine operation
type ActionType int

const (
	_ ActionType = iota
	// ActionTypeDepositCollateral deposit collateral
	ActionTypeDepositCollateral
	// ActionTypeDepositAndMint deposit collateral and mint debt in one call
	ActionTypeDepositAndMint
	// ActionTypeRedeemCollateral redeem collateral
	ActionTypeRedeemCollateral
	// ActionTypeRedeemForBurn burn debt then redeem collateral
	ActionTypeRedeemForBurn
	// ActionTypeMint mint debt
	ActionTypeMint
	// ActionTypeBurn burn debt
	ActionTypeBurn
	// ActionTypeLiquidate liquidate an under-collateralized account
	ActionTypeLiquidate
)

var actionNames = map[ActionType]string{
	ActionTypeDepositCollateral: "deposit_collateral",
	ActionTypeDepositAndMint:    "deposit_collateral_and_mint",
	ActionTypeRedeemCollateral:  "redeem_collateral",
	ActionTypeRedeemForBurn:     "redeem_collateral_for_dsc",
	ActionTypeMint:              "mint_dsc",
	ActionTypeBurn:              "burn_dsc",
	ActionTypeLiquidate:         "liquidate",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return "unknown"
}

// ParseActionType reverse of ActionType.String, 0 if unknown
func ParseActionType(s string) ActionType {
	for a, name := range actionNames {
		if name == s {
			return a
		}
	}

	return 0
}
