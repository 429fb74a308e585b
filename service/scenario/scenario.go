package scenario

import (
	"context"
	"fmt"
	"io"
	"strings"

	"dsc/core"
	"dsc/pkg/number"
	"dsc/pkg/solvency"
	"dsc/service/deploy"
	"dsc/service/oracle"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Step one scripted call. Amount is in units of Asset, Debt in debt token
// units. Expect is a fragment of the error the step must fail with, empty
// when the step must succeed.
type Step struct {
	Action  string `yaml:"action"`
	Account string `yaml:"account"`
	Asset   string `yaml:"asset,omitempty"`
	Amount  string `yaml:"amount,omitempty"`
	Debt    string `yaml:"debt,omitempty"`
	Target  string `yaml:"target,omitempty"`
	Price   string `yaml:"price,omitempty"`
	Expect  string `yaml:"expect,omitempty"`
}

// Scenario named list of steps run against a fresh deployment
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Result outcome of one step
type Result struct {
	Step   Step
	Output string
	Err    error
	Passed bool
}

// Load decodes a yaml scenario
func Load(r io.Reader) (*Scenario, error) {
	var s Scenario
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Run executes every step in order, a failed expectation does not stop the run
func Run(ctx context.Context, d *deploy.Deployment, s *Scenario) []Result {
	results := make([]Result, 0, len(s.Steps))
	for _, step := range s.Steps {
		output, err := run(ctx, d, step)
		passed := err == nil
		if step.Expect != "" {
			passed = err != nil && strings.Contains(err.Error(), step.Expect)
		}

		results = append(results, Result{
			Step:   step,
			Output: output,
			Err:    err,
			Passed: passed,
		})
	}

	return results
}

func run(ctx context.Context, d *deploy.Deployment, step Step) (string, error) {
	switch step.Action {
	case "faucet":
		t, ok := d.Tokens[step.Asset]
		if !ok {
			return "", core.ErrUnknownAsset
		}

		amount, err := d.ParseAmount(step.Asset, step.Amount)
		if err != nil {
			return "", err
		}

		return "", t.Mint(ctx, step.Account, amount)
	case "approve":
		t, ok := d.Token(step.Asset)
		if !ok {
			return "", core.ErrUnknownAsset
		}

		amount, err := d.ParseAmount(step.Asset, step.Amount)
		if err != nil {
			return "", err
		}

		spender := step.Target
		if spender == "" {
			spender = d.Engine.Address()
		}

		return "", t.Approve(ctx, step.Account, spender, amount)
	case "set_price":
		feed, ok := d.Feeds[step.Asset]
		if !ok {
			return "", core.ErrUnknownAsset
		}

		price, err := decimal.NewFromString(step.Price)
		if err != nil {
			return "", err
		}

		feed.UpdateAnswer(oracle.Answer(price))
		return "", nil
	case "health_factor":
		hf, err := d.Engine.HealthFactor(ctx, step.Account)
		if err != nil {
			return "", err
		}

		if hf.Eq(solvency.MaxHealthFactor) {
			return "inf", nil
		}

		return number.FromUnits(hf, solvency.Decimals).String(), nil
	case "account":
		info, err := d.Engine.AccountInformation(ctx, step.Account)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("debt %s collateral value %s",
			number.FromUnits(info.DebtMinted, solvency.Decimals),
			number.FromUnits(info.CollateralValue, solvency.Decimals),
		), nil
	}

	return "", operate(ctx, d, step)
}

func operate(ctx context.Context, d *deploy.Deployment, step Step) error {
	action := core.ParseActionType(step.Action)
	if action == 0 {
		return fmt.Errorf("unknown action %q", step.Action)
	}

	amount, debt, err := amounts(d, action, step)
	if err != nil {
		return err
	}

	e := d.Engine
	switch action {
	case core.ActionTypeDepositCollateral:
		return e.DepositCollateral(ctx, step.Account, step.Asset, amount)
	case core.ActionTypeDepositAndMint:
		return e.DepositCollateralAndMintDsc(ctx, step.Account, step.Asset, amount, debt)
	case core.ActionTypeRedeemCollateral:
		return e.RedeemCollateral(ctx, step.Account, step.Asset, amount)
	case core.ActionTypeRedeemForBurn:
		return e.RedeemCollateralForDsc(ctx, step.Account, step.Asset, amount, debt)
	case core.ActionTypeMint:
		return e.MintDsc(ctx, step.Account, debt)
	case core.ActionTypeBurn:
		return e.BurnDsc(ctx, step.Account, debt)
	default:
		return e.Liquidate(ctx, step.Account, step.Asset, step.Target, debt)
	}
}

// amounts collateral and debt amounts used by action
func amounts(d *deploy.Deployment, action core.ActionType, step Step) (amount, debt *uint256.Int, err error) {
	switch action {
	case core.ActionTypeMint, core.ActionTypeBurn, core.ActionTypeLiquidate:
	default:
		if amount, err = d.ParseAmount(step.Asset, step.Amount); err != nil {
			return nil, nil, err
		}
	}

	switch action {
	case core.ActionTypeDepositCollateral, core.ActionTypeRedeemCollateral:
	default:
		if debt, err = d.ParseAmount(deploy.DebtAssetID, step.Debt); err != nil {
			return nil, nil, err
		}
	}

	return amount, debt, nil
}
