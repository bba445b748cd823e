// Package tariff - Tiered electricity rate schedules
// A schedule is data: ordered tiers with an upper bound, a bound mode and a
// marginal rate. Pricing walks the tiers, it never branches on tier numbers.
package tariff

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"ebill/core/types"
	"ebill/internal/errors"
)

// Tier is one band of the schedule
type Tier struct {
	// Name labels the tier on invoices
	Name string

	// UpTo is the upper bound of the band (0 = unlimited, final tier only)
	UpTo int

	// Inclusive makes UpTo itself belong to this tier. When false the
	// bound value falls through to the next tier.
	Inclusive bool

	// Rate is the price per unit within the band
	Rate decimal.Decimal
}

// Unlimited reports whether the tier has no upper bound
func (t Tier) Unlimited() bool {
	return t.UpTo == 0
}

// contains reports whether units is classified into this tier
func (t Tier) contains(units int) bool {
	if t.Unlimited() {
		return true
	}
	if t.Inclusive {
		return units <= t.UpTo
	}
	return units < t.UpTo
}

// Schedule is an ordered tier list plus the surcharge levied on the amount
type Schedule struct {
	// Name identifies the schedule
	Name string

	// Tiers are ordered by ascending UpTo, final tier unlimited
	Tiers []Tier

	// SurchargeRate is the fraction of the amount added as surcharge
	SurchargeRate decimal.Decimal
}

// Default returns the domestic schedule:
//
//	tier 1: 0-50 units     0.50/unit
//	tier 2: 51-150 units   0.75/unit  (150 inclusive)
//	tier 3: 151-249 units  1.20/unit  (250 exclusive)
//	tier 4: 250+ units     1.50/unit
//
// plus a 20% surcharge. 150 prices in tier 2 and 250 in tier 4; the
// asymmetric bound on tier 3 is kept as published.
func Default() *Schedule {
	return &Schedule{
		Name: "domestic",
		Tiers: []Tier{
			{Name: "tier-1", UpTo: 50, Inclusive: true, Rate: decimal.RequireFromString("0.50")},
			{Name: "tier-2", UpTo: 150, Inclusive: true, Rate: decimal.RequireFromString("0.75")},
			{Name: "tier-3", UpTo: 250, Inclusive: false, Rate: decimal.RequireFromString("1.20")},
			{Name: "tier-4", Rate: decimal.RequireFromString("1.50")},
		},
		SurchargeRate: decimal.RequireFromString("0.2"),
	}
}

// Validate checks the schedule shape
func (s *Schedule) Validate() error {
	if len(s.Tiers) == 0 {
		return errors.Newf(errors.TypeConfig, "tariff %q has no tiers", s.Name)
	}
	if s.SurchargeRate.IsNegative() {
		return errors.Newf(errors.TypeConfig, "tariff %q: surcharge rate must not be negative", s.Name)
	}

	previous := 0
	last := len(s.Tiers) - 1
	for i, tier := range s.Tiers {
		if tier.Rate.IsNegative() {
			return errors.Newf(errors.TypeConfig, "tariff %q: tier %q has a negative rate", s.Name, tier.Name)
		}
		if i == last {
			if !tier.Unlimited() {
				return errors.Newf(errors.TypeConfig, "tariff %q: final tier %q must be unlimited", s.Name, tier.Name)
			}
			continue
		}
		if tier.Unlimited() {
			return errors.Newf(errors.TypeConfig, "tariff %q: only the final tier may be unlimited, %q is not last", s.Name, tier.Name)
		}
		if tier.UpTo <= previous {
			return errors.Newf(errors.TypeConfig, "tariff %q: tier %q bound %d must exceed %d", s.Name, tier.Name, tier.UpTo, previous)
		}
		previous = tier.UpTo
	}
	return nil
}

// Classify returns the 0-based index of the tier that prices units
func (s *Schedule) Classify(units int) int {
	for i, tier := range s.Tiers {
		if tier.contains(units) {
			return i
		}
	}
	return len(s.Tiers) - 1
}

// Quote prices units and returns the per-tier breakdown. Every tier below
// the classified one is charged in full; the classified tier is charged for
// the units above the previous bound, which may be zero.
func (s *Schedule) Quote(units int) ([]types.TierLine, decimal.Decimal) {
	k := s.Classify(units)

	lines := make([]types.TierLine, 0, k+1)
	amount := decimal.Zero
	previous := 0
	for i := 0; i <= k; i++ {
		tier := s.Tiers[i]

		billed := units - previous
		if i < k {
			billed = tier.UpTo - previous
		}

		cost := tier.Rate.Mul(decimal.NewFromInt(int64(billed)))
		amount = amount.Add(cost)
		lines = append(lines, types.TierLine{
			Tier:  i + 1,
			Name:  tier.Name,
			Range: s.Range(i),
			Units: billed,
			Rate:  tier.Rate,
			Cost:  cost,
		})

		previous = tier.UpTo
	}
	return lines, amount
}

// Amount returns the base charge for units
func (s *Schedule) Amount(units int) decimal.Decimal {
	_, amount := s.Quote(units)
	return amount
}

// Surcharge returns the levy on amount
func (s *Schedule) Surcharge(amount decimal.Decimal) decimal.Decimal {
	return s.SurchargeRate.Mul(amount)
}

// Total returns amount plus surcharge
func (s *Schedule) Total(amount, surcharge decimal.Decimal) decimal.Decimal {
	return amount.Add(surcharge)
}

// SurchargePercent renders the surcharge rate as a percentage, e.g. "20%"
func (s *Schedule) SurchargePercent() string {
	return s.SurchargeRate.Mul(decimal.NewFromInt(100)).String() + "%"
}

// Price builds the bill for a customer. Negative consumption is rejected
// before anything is computed.
func (s *Schedule) Price(customer types.Customer, units int) (*types.Bill, error) {
	if units < 0 {
		return nil, errors.Validation("units consumed cannot be negative").
			WithContext("units", units)
	}

	lines, amount := s.Quote(units)
	surcharge := s.Surcharge(amount)

	return &types.Bill{
		Customer:      customer,
		UnitsConsumed: units,
		Tier:          s.Classify(units) + 1,
		Amount:        amount,
		Surcharge:     surcharge,
		Total:         s.Total(amount, surcharge),
		Lines:         lines,
	}, nil
}

// Range renders the unit range of tier i, e.g. "151-249" or "250+"
func (s *Schedule) Range(i int) string {
	lower := 0
	if i > 0 {
		prev := s.Tiers[i-1]
		lower = prev.UpTo
		if prev.Inclusive {
			lower++
		}
	}

	tier := s.Tiers[i]
	if tier.Unlimited() {
		return strconv.Itoa(lower) + "+"
	}
	upper := tier.UpTo
	if !tier.Inclusive {
		upper--
	}
	return fmt.Sprintf("%d-%d", lower, upper)
}
