/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/voltsight/internal/dashboard"
	"github.com/josephgoksu/voltsight/internal/ui"
	"github.com/josephgoksu/voltsight/internal/warranty"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict <vehicle-id>",
	Short: "Run a battery health prediction for a vehicle",
	Long: `Send the vehicle and its usage telemetry to the prediction model and show
state of charge, state of health, risk, resale value and material composition.

With --json the backend's response is printed unchanged.

Example:
  voltsight predict EV-1042 --distance 48000 --charging 55`,
	Args: cobra.ExactArgs(1),
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	addTelemetryFlags(predictCmd)
}

func addTelemetryFlags(cmd *cobra.Command) {
	cmd.Flags().String("distance", "", "total distance driven in km (default from telemetry.total_dist_km)")
	cmd.Flags().String("charging", "", "average charging time in minutes (default from telemetry.charging_time_min)")
}

// predictFor selects vehicleID, applies the telemetry flags and runs a prediction.
func (a *app) predictFor(cmd *cobra.Command, vehicleID string) (dashboard.State, error) {
	ctx := cmd.Context()
	if err := a.selectVehicle(ctx, vehicleID); err != nil {
		return dashboard.State{}, err
	}
	for flag, field := range map[string]dashboard.TelemetryField{
		"distance": dashboard.FieldTotalDistance,
		"charging": dashboard.FieldChargingTime,
	} {
		if !cmd.Flags().Changed(flag) {
			continue
		}
		val, _ := cmd.Flags().GetString(flag)
		if err := a.ctrl.SetTelemetryField(field, val); err != nil {
			return dashboard.State{}, err
		}
	}

	if err := withSpinner(cmd, "Analysing battery...", func() error {
		return a.ctrl.Predict(ctx)
	}); err != nil {
		return dashboard.State{}, err
	}
	return a.ctrl.Snapshot(), nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	s, err := a.predictFor(cmd, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if isJSON() {
		var buf bytes.Buffer
		if err := json.Indent(&buf, s.Result.Raw, "", "  "); err != nil {
			return fmt.Errorf("format prediction: %w", err)
		}
		_, err := fmt.Fprintln(out, buf.String())
		return err
	}

	st := styles()
	r := s.CurrentResult()
	ui.RenderPageHeader(out, st, "Battery health", fmt.Sprintf("%s · %s", args[0], s.BatteryType()))
	fmt.Fprint(out, ui.RenderHealth(st, r))
	fmt.Fprintln(out)
	fmt.Fprintln(out, st.SectionTitle.Render("Materials"))
	fmt.Fprint(out, ui.RenderMaterials(st, r))
	fmt.Fprintln(out)
	fmt.Fprintln(out, st.SectionTitle.Render("Battery"))
	fmt.Fprint(out, ui.RenderSpec(st, s.BatteryType(), r))
	fmt.Fprintln(out)
	fmt.Fprint(out, ui.RenderAssessment(st, warranty.DashboardSummary(r)))
	return nil
}
