// Package tariff - HCL schedule loading
package tariff

import (
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"ebill/internal/errors"
)

// fileSchema is the HCL shape of a tariff file:
//
//	name           = "domestic"
//	surcharge_rate = 0.2
//
//	tier "tier-1" {
//	  up_to = 50
//	  rate  = 0.50
//	}
//	tier "tier-3" {
//	  up_to     = 250
//	  inclusive = false
//	  rate      = 1.20
//	}
//	tier "tier-4" {
//	  rate = 1.50
//	}
type fileSchema struct {
	Name          string      `hcl:"name,optional"`
	SurchargeRate *float64    `hcl:"surcharge_rate,optional"`
	Tiers         []tierBlock `hcl:"tier,block"`
}

type tierBlock struct {
	Name      string  `hcl:"name,label"`
	UpTo      *int    `hcl:"up_to,optional"`
	Inclusive *bool   `hcl:"inclusive,optional"`
	Rate      float64 `hcl:"rate"`
}

// LoadFile reads and validates a schedule from an HCL file
func LoadFile(path string) (*Schedule, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("read tariff file "+path, err)
	}
	return Parse(src, path)
}

// Parse decodes and validates a schedule from HCL source. filename is used
// in diagnostics only.
func Parse(src []byte, filename string) (*Schedule, error) {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	var raw fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	schedule := &Schedule{
		Name:          raw.Name,
		SurchargeRate: Default().SurchargeRate,
	}
	if schedule.Name == "" {
		schedule.Name = "custom"
	}
	if raw.SurchargeRate != nil {
		schedule.SurchargeRate = decimal.NewFromFloat(*raw.SurchargeRate)
	}

	for _, block := range raw.Tiers {
		tier := Tier{
			Name: block.Name,
			Rate: decimal.NewFromFloat(block.Rate),
		}
		// An unlimited tier has no bound mode.
		if block.UpTo != nil {
			if *block.UpTo <= 0 {
				return nil, errors.Newf(errors.TypeConfig, "%s: tier %q: up_to must be positive, omit it for the unlimited tier", filename, block.Name)
			}
			tier.UpTo = *block.UpTo
			tier.Inclusive = true
			if block.Inclusive != nil {
				tier.Inclusive = *block.Inclusive
			}
		}
		schedule.Tiers = append(schedule.Tiers, tier)
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return schedule, nil
}

func diagnosticsError(filename string, diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		e := errors.Config("parse tariff file "+filename, diags)
		if diag.Subject != nil {
			e.WithContext("line", diag.Subject.Start.Line)
		}
		return e
	}
	return errors.Config("parse tariff file "+filename, diags)
}
