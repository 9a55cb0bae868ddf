// Package warranty derives the warranty plan offers shown for a health prediction.
//
// DerivePlans is a pure function of the prediction: every call builds a fresh
// table from constants and applies the first matching adjustment rule.
package warranty

import (
	"github.com/josephgoksu/voltsight/models"
)

// Plan names, in display order.
const (
	PlanBasicCare      = "Basic Care"
	PlanPlatinumShield = "Platinum Shield"
	PlanResaleBoost    = "Resale Boost"
)

// Indexes into the derived offer array.
const (
	basicIdx = iota
	platinumIdx
	resaleIdx
)

// Platinum Shield prices.
const (
	PlatinumBasePrice     = "$999/yr"
	PlatinumDiscountPrice = "$899/yr"
	PlatinumPremiumPrice  = "$1,299/yr"
)

// Notes attached by the adjustment rules.
const (
	NoteRiskIneligible  = "Not eligible due to detected risk."
	NoteMonitoring      = "Recommended for monitoring."
	NoteHealthyDiscount = "Healthy Battery Discount Applied!"
	NoteHighMileage     = "High Mileage Premium"
)

// placeholderPlans is shown before any analysis has run. All offers are inert.
func placeholderPlans() [3]models.PlanOffer {
	return [3]models.PlanOffer{
		{
			Name:     PlanBasicCare,
			Price:    "$499/yr",
			Features: []string{"BMS Software Updates", "Annual Health Check", "24/7 Roadside Assist"},
			Disabled: true,
		},
		{
			Name:        PlanPlatinumShield,
			Price:       PlatinumBasePrice,
			Features:    []string{"Full Battery Replacement", "Degradation Coverage", "Free Towing"},
			Recommended: true,
			Disabled:    true,
		},
		{
			Name:     PlanResaleBoost,
			Price:    "$199",
			Features: []string{"Health Certificate", "Transferable Warranty"},
			Disabled: true,
		},
	}
}

// baselinePlans is the starting table once a prediction exists.
func baselinePlans() [3]models.PlanOffer {
	return [3]models.PlanOffer{
		{
			Name:     PlanBasicCare,
			Price:    "$499/yr",
			Features: []string{"BMS Software Updates", "Annual Health Check", "24/7 Roadside Assist"},
		},
		{
			Name:        PlanPlatinumShield,
			Price:       PlatinumBasePrice,
			Features:    []string{"Full Battery Replacement", "Degradation > 30% Coverage", "Free Towing", "Loaner Vehicle"},
			Recommended: true,
		},
		{
			Name:     PlanResaleBoost,
			Price:    "$199",
			Features: []string{"Certified Health Certificate", "Transferable Warranty", "Listing Highlight"},
		},
	}
}

// DerivePlans returns the three warranty offers for a prediction.
// With no prediction the placeholder offers are returned, all disabled.
func DerivePlans(result *models.PredictionResult) [3]models.PlanOffer {
	if result == nil {
		return placeholderPlans()
	}

	plans := baselinePlans()
	if rule, ok := firstMatch(*result); ok {
		rule.Apply(&plans)
	}
	return plans
}

// MatchedRule returns the name of the adjustment rule that fires for a
// prediction, or RuleBaseline when none does. A nil prediction yields "".
func MatchedRule(result *models.PredictionResult) string {
	if result == nil {
		return ""
	}
	if rule, ok := firstMatch(*result); ok {
		return rule.Name
	}
	return RuleBaseline
}
