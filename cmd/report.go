/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/josephgoksu/voltsight/internal/report"
)

// reportFs is where report files are written. Tests swap in a MemMapFs.
var reportFs = afero.NewOsFs()

// now is the report timestamp source.
var now = time.Now

var reportCmd = &cobra.Command{
	Use:   "report <vehicle-id>",
	Short: "Export a battery health report as Markdown",
	Long: `Run a prediction and write a Markdown report with YAML front matter holding
the telemetry, the prediction and the derived warranty plans.

Use --out - to print the report instead of writing a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addTelemetryFlags(reportCmd)
	reportCmd.Flags().StringP("out", "o", ".", "directory to write the report to, or - for stdout")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	s, err := a.predictFor(cmd, args[0])
	if err != nil {
		return err
	}
	sess, _ := s.Session()
	vehicle, _ := s.Selected()
	telemetry, err := s.Telemetry.Input(vehicle.BatteryType)
	if err != nil {
		return err
	}

	at := now()
	var buf bytes.Buffer
	if err := report.Write(&buf, report.Input{
		GeneratedAt: at,
		UserID:      sess.UserID,
		Vehicle:     vehicle,
		Telemetry:   telemetry,
		Result:      *s.CurrentResult(),
	}); err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "-" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if err := reportFs.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}
	path := filepath.Join(outDir, report.FileName(vehicle.VehicleID, at))
	if err := afero.WriteFile(reportFs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]string{"path": path})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Report saved to %s\n", styles().Success.Render("✓"), path)
	return nil
}
