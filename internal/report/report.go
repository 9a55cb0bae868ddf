// Package report renders a battery health report as Markdown with a YAML
// front matter block, so it reads well on its own and parses as data.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/josephgoksu/voltsight/internal/util"
	"github.com/josephgoksu/voltsight/internal/warranty"
	"github.com/josephgoksu/voltsight/models"
)

// Input is everything a report is built from.
type Input struct {
	GeneratedAt time.Time
	UserID      string
	Vehicle     models.Vehicle
	Telemetry   models.TelemetryInput
	Result      models.PredictionResult
}

// FrontMatter is the machine-readable header of a report.
type FrontMatter struct {
	Title       string             `yaml:"title"`
	GeneratedAt string             `yaml:"generated_at"`
	UserID      string             `yaml:"user_id"`
	VehicleID   string             `yaml:"vehicle_id"`
	BatteryType string             `yaml:"battery_type"`
	Telemetry   TelemetrySection   `yaml:"telemetry"`
	Prediction  PredictionSection  `yaml:"prediction"`
	Plans       []models.PlanOffer `yaml:"plans"`
	Rule        string             `yaml:"warranty_rule"`
}

type TelemetrySection struct {
	TotalDistanceKm float64 `yaml:"total_dist_km"`
	ChargingTimeMin float64 `yaml:"charging_time_min"`
}

type PredictionSection struct {
	EstimatedSoc    float64  `yaml:"estimated_soc"`
	PredictedSoh    float64  `yaml:"predicted_soh"`
	RiskRating      string   `yaml:"risk_rating"`
	AnomalyWarning  bool     `yaml:"anomaly_warning"`
	ResaleValueUSD  float64  `yaml:"resale_value_usd"`
	ChargingCycles  float64  `yaml:"pred_charging_cycles"`
	BatteryTempC    float64  `yaml:"pred_battery_temp"`
	EnergyKWh       *float64 `yaml:"energy_throughput_kwh,omitempty"`
	DegradationRate *float64 `yaml:"degradation_rate,omitempty"`
}

func buildFrontMatter(in Input) FrontMatter {
	plans := warranty.DerivePlans(&in.Result)
	fm := FrontMatter{
		Title:       "EV Battery Health Report",
		GeneratedAt: in.GeneratedAt.UTC().Format(time.RFC3339),
		UserID:      in.UserID,
		VehicleID:   in.Vehicle.VehicleID,
		BatteryType: in.Telemetry.BatteryType,
		Telemetry: TelemetrySection{
			TotalDistanceKm: in.Telemetry.TotalDistanceKm,
			ChargingTimeMin: in.Telemetry.ChargingTimeMin,
		},
		Prediction: PredictionSection{
			EstimatedSoc:    in.Result.EstimatedSoc,
			PredictedSoh:    in.Result.PredictedSoh,
			RiskRating:      string(in.Result.RiskRating),
			AnomalyWarning:  in.Result.AnomalyWarning,
			ResaleValueUSD:  in.Result.ResaleValueUSD,
			ChargingCycles:  in.Result.LatentFeatures.PredChargingCycles,
			BatteryTempC:    in.Result.LatentFeatures.PredBatteryTemp,
			DegradationRate: in.Result.DegradationRate,
		},
		Plans: plans[:],
		Rule:  warranty.MatchedRule(&in.Result),
	}
	if kwh, ok := models.EnergyThroughputKWh(&in.Result, models.SpecFor(in.Telemetry.BatteryType)); ok {
		fm.Prediction.EnergyKWh = &kwh
	}
	return fm
}

// Write renders the report to w.
func Write(w io.Writer, in Input) error {
	fm := buildFrontMatter(in)

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode front matter: %w", err)
	}
	buf.WriteString("---\n\n")

	writeBody(&buf, in, fm)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeBody(b *bytes.Buffer, in Input, fm FrontMatter) {
	r := in.Result
	spec := models.SpecFor(in.Telemetry.BatteryType)

	fmt.Fprintf(b, "# %s\n\n", fm.Title)
	fmt.Fprintf(b, "Vehicle **%s** (%s), generated %s.\n\n", fm.VehicleID, fm.BatteryType, in.GeneratedAt.Format("2 Jan 2006 15:04"))

	b.WriteString("## Health\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| State of charge | %s |\n", util.Percent(r.EstimatedSoc))
	fmt.Fprintf(b, "| State of health | %s (%s) |\n", util.Percent(r.PredictedSoh), r.HealthLabel())
	fmt.Fprintf(b, "| Risk rating | %s |\n", r.RiskRating)
	fmt.Fprintf(b, "| Resale value | %s |\n", util.USD(r.ResaleValueUSD))
	fmt.Fprintf(b, "| Charging cycles | %s |\n", util.Decimal(r.LatentFeatures.PredChargingCycles, 0))
	fmt.Fprintf(b, "| Battery temperature | %s °C |\n", util.Decimal(r.LatentFeatures.PredBatteryTemp, 1))
	if fm.Prediction.EnergyKWh != nil {
		fmt.Fprintf(b, "| Energy throughput | %s kWh |\n", util.Decimal(*fm.Prediction.EnergyKWh, 0))
	}
	if r.AnomalyWarning {
		b.WriteString("\n> **Anomaly detected.** Physical inspection is recommended.\n")
	}

	b.WriteString("\n## Materials\n\n")
	fmt.Fprintf(b, "- Lithium: %s\n", util.Grams(r.MaterialComposition.LithiumG))
	fmt.Fprintf(b, "- Cobalt: %s\n", util.Grams(r.MaterialComposition.CobaltG))
	if r.MaterialComposition.HasIron() {
		fmt.Fprintf(b, "- Iron: %s\n", util.Grams(*r.MaterialComposition.IronG))
	} else if r.MaterialComposition.NickelG != nil {
		fmt.Fprintf(b, "- Nickel: %s\n", util.Grams(*r.MaterialComposition.NickelG))
	}

	b.WriteString("\n## Battery\n\n")
	fmt.Fprintf(b, "- Manufacturer: %s\n- Architecture: %s\n- Capacity: %s\n- Cooling: %s\n- Rated cycles: %s\n- Warranty: %s\n",
		spec.Manufacturer, spec.Architecture, spec.Capacity, spec.Cooling, spec.Cycles, spec.Warranty)

	a := warranty.Assess(&r)
	b.WriteString("\n## Warranty\n\n")
	fmt.Fprintf(b, "**%s.** %s\n\n", a.Headline, a.Detail)
	for _, p := range fm.Plans {
		status := ""
		switch {
		case p.Disabled:
			status = " (not available)"
		case p.Recommended:
			status = " (recommended)"
		}
		fmt.Fprintf(b, "### %s: %s%s\n\n", p.Name, p.Price, status)
		if p.Note != "" {
			fmt.Fprintf(b, "_%s_\n\n", p.Note)
		}
		for _, f := range p.Features {
			fmt.Fprintf(b, "- %s\n", f)
		}
		b.WriteString("\n")
	}

	if note := strings.TrimSpace(r.CalculationNote); note != "" {
		fmt.Fprintf(b, "---\n\n%s\n", note)
	}
}

// Parse reads the front matter back from a rendered report.
func Parse(data []byte) (FrontMatter, error) {
	const delim = "---\n"
	s := string(data)
	if !strings.HasPrefix(s, delim) {
		return FrontMatter{}, fmt.Errorf("report has no front matter")
	}
	end := strings.Index(s[len(delim):], "\n"+delim)
	if end < 0 {
		return FrontMatter{}, fmt.Errorf("report front matter is not terminated")
	}

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(s[len(delim):len(delim)+end+1]), &fm); err != nil {
		return FrontMatter{}, fmt.Errorf("parse front matter: %w", err)
	}
	return fm, nil
}

// FileName suggests a file name for a report on vehicleID.
func FileName(vehicleID string, at time.Time) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, vehicleID)
	if id == "" {
		id = "vehicle"
	}
	return fmt.Sprintf("battery-report-%s-%s.md", id, at.Format("20060102-150405"))
}
