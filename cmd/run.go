package cmd

import (
	"fmt"
	"os"

	"dsc/service/scenario"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "replay a scripted scenario against an in-memory deployment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		s, err := scenario.Load(f)
		if err != nil {
			return fmt.Errorf("load scenario: %w", err)
		}

		results := scenario.Run(cmd.Context(), provideDeployment(), s)

		failed := 0
		for idx, r := range results {
			status := "ok"
			if !r.Passed {
				status = "FAIL"
				failed++
			}

			line := fmt.Sprintf("%3d %-4s %s %s", idx+1, status, r.Step.Action, r.Step.Account)
			if r.Output != "" {
				line += " => " + r.Output
			}
			if r.Err != nil {
				line += " err: " + r.Err.Error()
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}

		if failed > 0 {
			return fmt.Errorf("scenario %q: %d of %d steps failed", s.Name, failed, len(results))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
