/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/voltsight/internal/dashboard"
	"github.com/josephgoksu/voltsight/models"
)

var registerCmd = &cobra.Command{
	Use:   "register <vehicle-id>",
	Short: "Register a vehicle for the current user",
	Long: `Register a vehicle for the current user.

Example:
  voltsight register EV-1042 --battery LiFePO4 --price 31999.50 \
    --bought 2023-05-02 --manufactured 2023-01-20`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	addVehicleFlags(registerCmd)
	_ = registerCmd.MarkFlagRequired("price")
	_ = registerCmd.MarkFlagRequired("bought")
	_ = registerCmd.MarkFlagRequired("manufactured")
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	if err := a.verifySession(ctx); err != nil {
		return err
	}
	if err := a.ctrl.ShowRegisterForm(); err != nil {
		return err
	}
	if err := a.ctrl.SetRegisterField(dashboard.FieldVehicleID, args[0]); err != nil {
		return err
	}
	if err := a.ctrl.SetRegisterField(dashboard.FieldBatteryType, models.BatteryLiIon); err != nil {
		return err
	}
	if _, err := applyVehicleFlags(cmd, a.ctrl.SetRegisterField); err != nil {
		return err
	}

	if err := withSpinner(cmd, "Registering vehicle...", func() error {
		return a.ctrl.RegisterVehicle(ctx)
	}); err != nil {
		return err
	}

	s := a.ctrl.Snapshot()
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"message":  s.Notice,
			"vehicles": s.Vehicles(),
		})
	}
	st := styles()
	notice := strings.TrimSpace(s.Notice)
	if notice == "" {
		notice = "Vehicle registered"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n\n", st.Success.Render("✓"), notice)
	fmt.Fprint(cmd.OutOrStdout(), renderVehicleList(st, s))
	return nil
}
