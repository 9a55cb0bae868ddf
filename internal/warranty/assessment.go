package warranty

import "github.com/josephgoksu/voltsight/models"

// Assessment is the eligibility banner shown above the plan cards.
type Assessment struct {
	Eligible bool
	Headline string
	Detail   string
}

// Assess summarises warranty eligibility for a prediction.
// Only the anomaly flag decides auto-approval here; risk rating affects the plans.
func Assess(result *models.PredictionResult) Assessment {
	switch {
	case result == nil:
		return Assessment{
			Headline: "Analysis Required",
			Detail:   "Please run the analysis on the dashboard to check eligibility.",
		}
	case result.AnomalyWarning:
		return Assessment{
			Headline: "Not Eligible for Auto-Approval",
			Detail:   "Detected degradation patterns exceed the safe threshold for automated warranty extension.",
		}
	default:
		return Assessment{
			Eligible: true,
			Headline: "Pre-Approved for Platinum Warranty",
			Detail:   "Your battery health is excellent. You qualify for our minimal deductible plan.",
		}
	}
}

// DashboardSummary is the shorter eligibility card shown on the dashboard view.
func DashboardSummary(result *models.PredictionResult) Assessment {
	switch {
	case result == nil:
		return Assessment{
			Headline: "Analysis Required",
			Detail:   "Please run the health analysis to check eligibility.",
		}
	case result.AnomalyWarning:
		return Assessment{
			Headline: "Not Eligible for Auto-Extension",
			Detail:   "Anomaly detected in degradation patterns. Physical inspection required before warranty extension.",
		}
	default:
		return Assessment{
			Eligible: true,
			Headline: "Eligible for Platinum Coverage",
			Detail:   "Battery health is optimal. You can extend your warranty for up to 3 years or 50,000 km.",
		}
	}
}
