package models

import (
	"strings"
)

// RiskRating is the categorical risk assessment returned by the prediction API.
type RiskRating string

const (
	RiskNormal RiskRating = "Low Risk"
	RiskHigh   RiskRating = "High Risk"
)

// IsHigh reports whether the rating denotes high risk. Matching ignores case,
// spaces, dashes and underscores so "High Risk", "HighRisk" and "high_risk" all count.
func (r RiskRating) IsHigh() bool {
	norm := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(string(r)))
	return norm == "highrisk"
}

// MaterialComposition is the estimated recoverable mass of key elements, in grams.
// Nickel and iron are optional: LFP packs report iron, NMC packs report nickel.
type MaterialComposition struct {
	LithiumG float64  `json:"lithium_g"`
	CobaltG  float64  `json:"cobalt_g"`
	NickelG  *float64 `json:"nickel_g,omitempty"`
	IronG    *float64 `json:"iron_g,omitempty"`
}

// HasIron reports whether the pack reports a non-zero iron mass.
func (m MaterialComposition) HasIron() bool {
	return m.IronG != nil && *m.IronG > 0
}

// LatentFeatures are the stage-one model outputs exposed by the backend.
type LatentFeatures struct {
	PredChargingCycles float64  `json:"pred_charging_cycles"`
	PredBatteryTemp    float64  `json:"pred_battery_temp"`
	PredEfficiency     *float64 `json:"pred_efficiency,omitempty"`
}

// PredictionResult is one health prediction. A new prediction replaces the
// previous one as a whole; results are never merged.
type PredictionResult struct {
	EstimatedSoc        float64             `json:"estimated_soc"`
	PredictedSoh        float64             `json:"predicted_soh"`
	RiskRating          RiskRating          `json:"risk_rating"`
	AnomalyWarning      bool                `json:"anomaly_warning"`
	ResaleValueUSD      float64             `json:"resale_value_usd"`
	MaterialComposition MaterialComposition `json:"material_composition"`
	LatentFeatures      LatentFeatures      `json:"latent_features"`

	DegradationRate  *float64 `json:"degradation_rate,omitempty"`
	AnomalyThreshold *float64 `json:"anomaly_threshold,omitempty"`
	CalculationNote  string   `json:"calculation_note,omitempty"`
}

// HealthLabel mirrors the gauge caption: above 80% is "Good".
func (p PredictionResult) HealthLabel() string {
	if p.PredictedSoh > 80 {
		return "Good"
	}
	return "Average"
}
