package models

// PlanOffer is one warranty plan as shown on the warranty view.
// Offers are derived from the current prediction on every render and never stored.
type PlanOffer struct {
	Name        string   `json:"name" yaml:"name"`
	Price       string   `json:"price" yaml:"price"`
	Features    []string `json:"features" yaml:"features"`
	Recommended bool     `json:"recommended" yaml:"recommended"`
	Disabled    bool     `json:"disabled" yaml:"disabled"`
	Note        string   `json:"note,omitempty" yaml:"note,omitempty"`
}
