package warranty

import "github.com/josephgoksu/voltsight/models"

// Rule names.
const (
	RuleRiskIneligible  = "risk-ineligible"
	RuleHealthyDiscount = "healthy-discount"
	RuleHighMileage     = "high-mileage-premium"
	RuleBaseline        = "baseline"
)

// Rule is one adjustment to the baseline plan table.
type Rule struct {
	Name  string
	Match func(r models.PredictionResult) bool
	Apply func(plans *[3]models.PlanOffer)
}

// rules is evaluated top to bottom; the first match wins.
// SOH between 80 and 90 inclusive with no risk matches nothing and keeps the baseline.
var rules = []Rule{
	{
		Name: RuleRiskIneligible,
		Match: func(r models.PredictionResult) bool {
			return r.AnomalyWarning || r.RiskRating.IsHigh()
		},
		Apply: func(plans *[3]models.PlanOffer) {
			plans[platinumIdx].Disabled = true
			plans[platinumIdx].Recommended = false
			plans[platinumIdx].Note = NoteRiskIneligible

			plans[basicIdx].Recommended = true
			plans[basicIdx].Note = NoteMonitoring
		},
	},
	{
		Name: RuleHealthyDiscount,
		Match: func(r models.PredictionResult) bool {
			return r.PredictedSoh > 90
		},
		Apply: func(plans *[3]models.PlanOffer) {
			plans[platinumIdx].Price = PlatinumDiscountPrice
			plans[platinumIdx].Note = NoteHealthyDiscount
		},
	},
	{
		Name: RuleHighMileage,
		Match: func(r models.PredictionResult) bool {
			return r.PredictedSoh < 80
		},
		Apply: func(plans *[3]models.PlanOffer) {
			plans[platinumIdx].Price = PlatinumPremiumPrice
			plans[platinumIdx].Note = NoteHighMileage
		},
	},
}

// Rules returns a copy of the ordered rule list.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

func firstMatch(r models.PredictionResult) (Rule, bool) {
	for _, rule := range rules {
		if rule.Match(r) {
			return rule, true
		}
	}
	return Rule{}, false
}
