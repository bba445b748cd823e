// Package types - Bill types
package types

import "github.com/shopspring/decimal"

// Bill is a priced consumption for one customer. It embeds nothing: the
// customer is held by value and the bill is never mutated after pricing.
type Bill struct {
	// Customer is the billed party
	Customer Customer `json:"customer" yaml:"customer"`

	// UnitsConsumed is the metered usage for the period, never negative
	UnitsConsumed int `json:"units_consumed" yaml:"units_consumed"`

	// Tier is the 1-based tier that priced the final unit
	Tier int `json:"tier" yaml:"tier"`

	// Amount is the base charge before surcharge
	Amount decimal.Decimal `json:"amount" yaml:"amount"`

	// Surcharge is the levy on Amount
	Surcharge decimal.Decimal `json:"surcharge" yaml:"surcharge"`

	// Total is Amount plus Surcharge
	Total decimal.Decimal `json:"total" yaml:"total"`

	// Lines breaks Amount down per tier
	Lines []TierLine `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// TierLine is the portion of a bill charged in one tier
type TierLine struct {
	// Tier is the 1-based tier position
	Tier int `json:"tier" yaml:"tier"`

	// Name is the tier label
	Name string `json:"name" yaml:"name"`

	// Range is the human-readable unit range, e.g. "51-150"
	Range string `json:"range" yaml:"range"`

	// Units is the number of units billed in this tier
	Units int `json:"units" yaml:"units"`

	// Rate is the per-unit price in this tier
	Rate decimal.Decimal `json:"rate" yaml:"rate"`

	// Cost is Units * Rate
	Cost decimal.Decimal `json:"cost" yaml:"cost"`
}
