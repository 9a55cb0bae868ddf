package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/voltsight/internal/util"
	"github.com/josephgoksu/voltsight/internal/warranty"
	"github.com/josephgoksu/voltsight/models"
)

// NoAnalysisText is shown wherever a result is needed but none exists yet.
const NoAnalysisText = "No analysis yet. Select a vehicle and run the health analysis."

// RenderVehicles lists the vehicles, marking selectedID with ▶ and the row
// at cursor with ›. A negative cursor marks nothing.
func RenderVehicles(st Styles, vehicles []models.Vehicle, selectedID string, cursor int) string {
	if len(vehicles) == 0 {
		return st.Subtle.Render("No vehicles registered.") + "\n"
	}
	t := &Table{
		Headers:  []string{" ", "Vehicle", "Battery", "Price", "Bought", "Manufactured"},
		MaxWidth: 28,
		Styles:   &st,
	}
	for i, v := range vehicles {
		marker := " "
		switch {
		case v.VehicleID == selectedID:
			marker = "▶"
		case i == cursor:
			marker = "›"
		}
		t.Rows = append(t.Rows, []string{
			marker, v.VehicleID, v.BatteryType, util.USD(v.BuyingPrice), v.BuyingDate, v.ManufactureDate,
		})
	}
	return t.Render()
}

// RenderHealth shows the headline metrics of a result.
func RenderHealth(st Styles, r *models.PredictionResult) string {
	if r == nil {
		return st.Subtle.Render(NoAnalysisText)
	}

	sohStyle := st.Success
	if r.PredictedSoh <= 80 {
		sohStyle = st.Warning
	}
	riskStyle := st.Success
	if r.RiskRating.IsHigh() {
		riskStyle = st.Error
	}

	rows := [][2]string{
		{"State of charge", util.Percent(r.EstimatedSoc)},
		{"State of health", sohStyle.Render(util.Percent(r.PredictedSoh) + " " + r.HealthLabel())},
		{"Risk rating", riskStyle.Render(string(r.RiskRating))},
		{"Resale value", util.USD(r.ResaleValueUSD)},
		{"Charging cycles", util.Decimal(r.LatentFeatures.PredChargingCycles, 0)},
		{"Battery temperature", util.Decimal(r.LatentFeatures.PredBatteryTemp, 1) + " °C"},
	}
	if r.LatentFeatures.PredEfficiency != nil {
		rows = append(rows, [2]string{"Efficiency", util.Percent(*r.LatentFeatures.PredEfficiency)})
	}
	if r.DegradationRate != nil {
		rows = append(rows, [2]string{"Degradation rate", util.Decimal(*r.DegradationRate, 3)})
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(st.Subtle.Render(padRight(row[0], 20)) + " " + row[1] + "\n")
	}
	if r.AnomalyWarning {
		sb.WriteString("\n" + st.Error.Render("⚠ Anomaly detected. Physical inspection recommended.") + "\n")
	}
	return sb.String()
}

// RenderMaterials shows the recoverable element masses.
func RenderMaterials(st Styles, r *models.PredictionResult) string {
	if r == nil {
		return st.Subtle.Render(NoAnalysisText)
	}
	m := r.MaterialComposition
	lines := []string{
		st.Subtle.Render(padRight("Lithium", 10)) + " " + util.Grams(m.LithiumG),
		st.Subtle.Render(padRight("Cobalt", 10)) + " " + util.Grams(m.CobaltG),
	}
	switch {
	case m.HasIron():
		lines = append(lines, st.Subtle.Render(padRight("Iron", 10))+" "+util.Grams(*m.IronG))
	case m.NickelG != nil:
		lines = append(lines, st.Subtle.Render(padRight("Nickel", 10))+" "+util.Grams(*m.NickelG))
	}
	return strings.Join(lines, "\n") + "\n"
}

// RenderSpec shows the datasheet for a chemistry and, with a result, the
// estimated lifetime energy throughput.
func RenderSpec(st Styles, batteryType string, r *models.PredictionResult) string {
	spec := models.SpecFor(batteryType)
	rows := [][2]string{
		{"Chemistry", batteryType},
		{"Manufacturer", spec.Manufacturer},
		{"Architecture", spec.Architecture},
		{"Capacity", spec.Capacity},
		{"Max charging", models.MaxChargingPower},
		{"Cooling", spec.Cooling},
		{"Rated cycles", spec.Cycles},
		{"Warranty", spec.Warranty},
	}
	if kwh, ok := models.EnergyThroughputKWh(r, spec); ok {
		rows = append(rows, [2]string{"Energy throughput", util.Decimal(kwh, 0) + " kWh"})
	}
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(st.Subtle.Render(padRight(row[0], 18)) + " " + row[1] + "\n")
	}
	return sb.String()
}

// RenderAssessment renders an eligibility banner.
func RenderAssessment(st Styles, a warranty.Assessment) string {
	head := st.Warning
	if a.Eligible {
		head = st.Success
	}
	return head.Bold(true).Render(a.Headline) + "\n" + st.Subtle.Render(a.Detail) + "\n"
}

// RenderPlans lays the three plan cards side by side.
func RenderPlans(st Styles, plans [3]models.PlanOffer) string {
	cards := make([]string, 0, len(plans))
	for _, p := range plans {
		cards = append(cards, renderPlanCard(st, p))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n"
}

func renderPlanCard(st Styles, p models.PlanOffer) string {
	style := st.Card
	switch {
	case p.Disabled:
		style = st.CardMuted
	case p.Recommended:
		style = st.CardBest
	}

	var sb strings.Builder
	title := st.Title.Render(p.Name)
	if p.Recommended && !p.Disabled {
		title += " " + st.Primary.Render("★ Recommended")
	}
	sb.WriteString(title + "\n")
	sb.WriteString(st.Accent.Render(p.Price) + "\n")
	for _, f := range p.Features {
		sb.WriteString("• " + f + "\n")
	}
	if p.Note != "" {
		noteStyle := st.Success
		if p.Disabled {
			noteStyle = st.Error
		}
		sb.WriteString(noteStyle.Render(p.Note) + "\n")
	}
	if p.Disabled {
		sb.WriteString(st.Subtle.Render("Not available"))
	}
	return style.Width(30).Render(strings.TrimRight(sb.String(), "\n"))
}

// FormatPlanLine is the one-line plain form used by non-interactive output.
func FormatPlanLine(p models.PlanOffer) string {
	status := ""
	switch {
	case p.Disabled:
		status = " [not available]"
	case p.Recommended:
		status = " [recommended]"
	}
	line := fmt.Sprintf("%s %s%s", p.Name, p.Price, status)
	if p.Note != "" {
		line += " - " + p.Note
	}
	return line
}
