package billing

import (
	"ebill/core/ui"
)

// Prompts, in the order they are asked
const (
	PromptCustomerID    = "Enter Customer ID: "
	PromptCustomerName  = "Enter Customer Name: "
	PromptUnitsConsumed = "Enter Units Consumed: "
)

// Preset holds values already supplied on the command line. A nil field is
// asked for on the console.
type Preset struct {
	CustomerID    *int
	CustomerName  *string
	UnitsConsumed *int
}

// ReadInput fills the fields missing from preset by prompting
func ReadInput(p *ui.Prompter, preset Preset) (Input, error) {
	var in Input
	var err error

	if preset.CustomerID != nil {
		in.CustomerID = *preset.CustomerID
	} else if in.CustomerID, err = p.Int(PromptCustomerID); err != nil {
		return Input{}, err
	}

	if preset.CustomerName != nil {
		in.CustomerName = *preset.CustomerName
	} else if in.CustomerName, err = p.Line(PromptCustomerName); err != nil {
		return Input{}, err
	}

	if preset.UnitsConsumed != nil {
		in.UnitsConsumed = *preset.UnitsConsumed
	} else if in.UnitsConsumed, err = p.Int(PromptUnitsConsumed); err != nil {
		return Input{}, err
	}

	return in, nil
}
