/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <vehicle-id>",
	Short: "Change the details of a registered vehicle",
	Long: `Change the details of a registered vehicle. Only the flags you pass are
changed; the vehicle id itself cannot be edited.

Example:
  voltsight update EV-1042 --price 29500`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	addVehicleFlags(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	if err := a.selectVehicle(ctx, args[0]); err != nil {
		return err
	}
	n, err := applyVehicleFlags(cmd, a.ctrl.SetEditField)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("nothing to update; pass at least one of --battery, --price, --bought, --manufactured")
	}

	if err := withSpinner(cmd, "Saving changes...", func() error {
		return a.ctrl.UpdateVehicle(ctx)
	}); err != nil {
		return err
	}

	s := a.ctrl.Snapshot()
	v, _ := s.Selected()
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"message": s.Notice,
			"vehicle": v,
		})
	}
	notice := strings.TrimSpace(s.Notice)
	if notice == "" {
		notice = "Vehicle updated"
	}
	st := styles()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n\n", st.Success.Render("✓"), notice)
	fmt.Fprint(cmd.OutOrStdout(), renderVehicleList(st, s))
	return nil
}
