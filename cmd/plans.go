/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/voltsight/internal/ui"
	"github.com/josephgoksu/voltsight/internal/warranty"
	"github.com/josephgoksu/voltsight/models"
)

var plansCmd = &cobra.Command{
	Use:   "plans [vehicle-id]",
	Short: "Show warranty extension plans",
	Long: `Show the three warranty extension plans.

Without a vehicle the plans are shown as unavailable until an analysis exists.
With a vehicle a prediction is run first and the plans are priced from it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlans,
}

func init() {
	rootCmd.AddCommand(plansCmd)
	addTelemetryFlags(plansCmd)
}

func runPlans(cmd *cobra.Command, args []string) error {
	var result *models.PredictionResult
	if len(args) == 1 {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		s, err := a.predictFor(cmd, args[0])
		if err != nil {
			return err
		}
		result = s.CurrentResult()
	}

	plans := warranty.DerivePlans(result)
	assessment := warranty.Assess(result)
	out := cmd.OutOrStdout()

	if isJSON() {
		return printJSON(out, map[string]any{
			"eligible": assessment.Eligible,
			"headline": assessment.Headline,
			"rule":     warranty.MatchedRule(result),
			"plans":    plans,
		})
	}

	st := styles()
	ui.RenderPageHeader(out, st, "Extend Warranty", "Plans priced from your latest battery analysis")
	fmt.Fprint(out, ui.RenderAssessment(st, assessment))
	fmt.Fprintln(out)
	if ui.IsInteractive() {
		fmt.Fprint(out, ui.RenderPlans(st, plans))
		return nil
	}
	for _, p := range plans {
		fmt.Fprintln(out, ui.FormatPlanLine(p))
	}
	return nil
}
