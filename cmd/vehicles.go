/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/voltsight/internal/dashboard"
	"github.com/josephgoksu/voltsight/internal/ui"
	"github.com/josephgoksu/voltsight/models"
)

// vehiclesCmd represents the vehicles command
var vehiclesCmd = &cobra.Command{
	Use:     "vehicles",
	Aliases: []string{"ls"},
	Short:   "List the vehicles registered to the current user",
	Args:    cobra.NoArgs,
	RunE:    runVehicles,
}

func init() {
	rootCmd.AddCommand(vehiclesCmd)
}

func runVehicles(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := withSpinner(cmd, "Loading vehicles...", func() error {
		return a.verifySession(cmd.Context())
	}); err != nil {
		return err
	}

	s := a.ctrl.Snapshot()
	vehicles := s.Vehicles()
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), vehicles)
	}

	sess, _ := s.Session()
	st := styles()
	ui.RenderPageHeader(cmd.OutOrStdout(), st, "Vehicles", "User "+sess.UserID)
	fmt.Fprint(cmd.OutOrStdout(), renderVehicleList(st, s))
	return nil
}

func renderVehicleList(st ui.Styles, s dashboard.State) string {
	selected := ""
	if v, ok := s.Selected(); ok {
		selected = v.VehicleID
	}
	return ui.RenderVehicles(st, s.Vehicles(), selected, -1)
}

// vehicleFlags are the form inputs shared by register and update.
var vehicleFlags = []struct {
	name  string
	field dashboard.VehicleField
	usage string
}{
	{"battery", dashboard.FieldBatteryType, "battery chemistry: Li-ion, LiFePO4 or NCM_Type1 (register defaults to Li-ion)"},
	{"price", dashboard.FieldBuyingPrice, "buying price in USD"},
	{"bought", dashboard.FieldBuyingDate, "buying date (YYYY-MM-DD)"},
	{"manufactured", dashboard.FieldManufactureDate, "manufacture date (YYYY-MM-DD)"},
}

func addVehicleFlags(cmd *cobra.Command) {
	for _, f := range vehicleFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

// applyVehicleFlags copies the changed flags into a form through set.
func applyVehicleFlags(cmd *cobra.Command, set func(dashboard.VehicleField, string) error) (int, error) {
	n := 0
	for _, f := range vehicleFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		val, _ := cmd.Flags().GetString(f.name)
		if err := set(f.field, val); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
