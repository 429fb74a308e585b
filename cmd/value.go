package cmd

import (
	"fmt"

	"dsc/pkg/number"
	"dsc/pkg/solvency"

	"github.com/spf13/cobra"
)

var valueCmd = &cobra.Command{
	Use:   "value <asset> <amount>",
	Short: "usd value of an asset amount at the configured price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := provideDeployment()
		amount, err := d.ParseAmount(args[0], args[1])
		if err != nil {
			return err
		}

		usd, err := d.Engine.UsdValue(cmd.Context(), args[0], amount)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), number.FromUnits(usd, solvency.Decimals).String())
		return nil
	},
}

var tokenAmountCmd = &cobra.Command{
	Use:   "token-amount <asset> <usd>",
	Short: "asset amount worth the given usd value at the configured price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := provideDeployment()
		dec, ok := d.Decimals(args[0])
		if !ok {
			return fmt.Errorf("unknown asset %q", args[0])
		}

		usd, err := number.ParseUnits(args[1], solvency.Decimals)
		if err != nil {
			return err
		}

		amount, err := d.Engine.TokenAmountFromUsd(cmd.Context(), args[0], usd)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), number.FromUnits(amount, dec).String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(valueCmd)
	rootCmd.AddCommand(tokenAmountCmd)
}
