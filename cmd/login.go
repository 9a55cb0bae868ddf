/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/voltsight/internal/dashboard"
)

var loginCmd = &cobra.Command{
	Use:   "login <user-id>",
	Short: "Verify a user id and remember it",
	Long: `Verify a user id against the vehicle registry and store it locally so
later commands and the dashboard resume with it.

There is no password: the id only selects whose vehicles are shown.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored user id",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	err = withSpinner(cmd, "Checking user...", func() error {
		return a.ctrl.Verify(cmd.Context(), args[0])
	})
	if err != nil {
		return err
	}

	s := a.ctrl.Snapshot()
	sess, _ := s.Session()
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"user_id":  sess.UserID,
			"vehicles": s.Vehicles(),
		})
	}

	st := styles()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Verified %s\n", st.Success.Render("✓"), sess.UserID)
	if _, empty := s.Phase.(dashboard.VerifiedNoVehicles); empty {
		fmt.Fprintln(out, st.Subtle.Render("No vehicles yet. Add one with `voltsight register`."))
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, renderVehicleList(st, s))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && !isJSON() && !confirmOrAbort(cmd.InOrStdin(), cmd.OutOrStdout(), "Forget the stored user id? [y/N]: ") {
		return nil
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.ctrl.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]bool{"logged_out": true})
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}
