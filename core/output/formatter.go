// Package output provides invoice formatting.
// This package produces human and machine-readable invoices.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"ebill/core/types"
	"ebill/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is the human-readable invoice
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatYAML is machine-readable YAML
	FormatYAML Format = "yaml"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given invoice
	Render(w io.Writer, invoice *Invoice) error
}

// Invoice is a priced bill plus presentation settings
type Invoice struct {
	// Bill is the priced bill
	Bill *types.Bill

	// Currency is the symbol printed before amounts, e.g. "Rs."
	Currency string

	// SurchargeLabel describes the surcharge rate, e.g. "20%"
	SurchargeLabel string

	// ShowDetails adds the per-tier breakdown
	ShowDetails bool
}

// Money renders an amount with exactly two decimal places
func Money(currency string, amount decimal.Decimal) string {
	if currency == "" {
		return amount.StringFixed(2)
	}
	return currency + " " + amount.StringFixed(2)
}

// New returns the formatter for format
func New(format Format) (Formatter, error) {
	switch format {
	case FormatCLI, "":
		return CLIFormatter{}, nil
	case FormatJSON:
		return JSONFormatter{}, nil
	case FormatYAML:
		return YAMLFormatter{}, nil
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported output format: %s", format)
	}
}

// CLIFormatter prints the console invoice
type CLIFormatter struct{}

func (CLIFormatter) Format() Format { return FormatCLI }

func (CLIFormatter) Render(w io.Writer, inv *Invoice) error {
	b := inv.Bill
	lines := []string{
		"",
		"--- Electricity Bill ---",
		fmt.Sprintf("Customer ID: %d", b.Customer.ID),
		fmt.Sprintf("Customer Name: %s", b.Customer.Name),
		fmt.Sprintf("Units Consumed: %d", b.UnitsConsumed),
		fmt.Sprintf("Amount: %s", Money(inv.Currency, b.Amount)),
		fmt.Sprintf("Surcharge (%s): %s", inv.SurchargeLabel, Money(inv.Currency, b.Surcharge)),
		fmt.Sprintf("Total Amount: %s", Money(inv.Currency, b.Total)),
	}

	if inv.ShowDetails && len(b.Lines) > 0 {
		lines = append(lines, "", fmt.Sprintf("Tier breakdown (priced in tier %d):", b.Tier))
		for _, l := range b.Lines {
			lines = append(lines, fmt.Sprintf("  %-8s %-9s %5d x %s = %s",
				l.Name, l.Range, l.Units, l.Rate.StringFixed(2), Money(inv.Currency, l.Cost)))
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// invoiceDocument is the machine-readable invoice. Amounts are strings
// with two decimals so no reader re-rounds them.
type invoiceDocument struct {
	CustomerID    int            `json:"customer_id" yaml:"customer_id"`
	CustomerName  string         `json:"customer_name" yaml:"customer_name"`
	UnitsConsumed int            `json:"units_consumed" yaml:"units_consumed"`
	Tier          int            `json:"tier" yaml:"tier"`
	Currency      string         `json:"currency" yaml:"currency"`
	Amount        string         `json:"amount" yaml:"amount"`
	SurchargeRate string         `json:"surcharge_rate" yaml:"surcharge_rate"`
	Surcharge     string         `json:"surcharge" yaml:"surcharge"`
	Total         string         `json:"total" yaml:"total"`
	Lines         []lineDocument `json:"lines,omitempty" yaml:"lines,omitempty"`
}

type lineDocument struct {
	Name  string `json:"name" yaml:"name"`
	Range string `json:"range" yaml:"range"`
	Units int    `json:"units" yaml:"units"`
	Rate  string `json:"rate" yaml:"rate"`
	Cost  string `json:"cost" yaml:"cost"`
}

func newInvoiceDocument(inv *Invoice) invoiceDocument {
	b := inv.Bill
	doc := invoiceDocument{
		CustomerID:    b.Customer.ID,
		CustomerName:  b.Customer.Name,
		UnitsConsumed: b.UnitsConsumed,
		Tier:          b.Tier,
		Currency:      inv.Currency,
		Amount:        b.Amount.StringFixed(2),
		SurchargeRate: inv.SurchargeLabel,
		Surcharge:     b.Surcharge.StringFixed(2),
		Total:         b.Total.StringFixed(2),
	}
	if inv.ShowDetails {
		for _, l := range b.Lines {
			doc.Lines = append(doc.Lines, lineDocument{
				Name:  l.Name,
				Range: l.Range,
				Units: l.Units,
				Rate:  l.Rate.StringFixed(2),
				Cost:  l.Cost.StringFixed(2),
			})
		}
	}
	return doc
}

// JSONFormatter prints the invoice as indented JSON
type JSONFormatter struct{}

func (JSONFormatter) Format() Format { return FormatJSON }

func (JSONFormatter) Render(w io.Writer, inv *Invoice) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newInvoiceDocument(inv))
}

// YAMLFormatter prints the invoice as YAML
type YAMLFormatter struct{}

func (YAMLFormatter) Format() Format { return FormatYAML }

func (YAMLFormatter) Render(w io.Writer, inv *Invoice) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newInvoiceDocument(inv)); err != nil {
		return err
	}
	return enc.Close()
}
