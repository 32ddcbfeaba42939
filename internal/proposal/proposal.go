// Package proposal renders printable proposal documents.
package proposal

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"math"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidProposal = errors.New("invalid proposal")

//go:embed proposal.html.tmpl
var documentTemplate string

var (
	tmpl = template.Must(template.New("proposal").Funcs(template.FuncMap{
		"money": formatMoney,
		"inc":   func(i int) int { return i + 1 },
	}).Parse(documentTemplate))

	validate = validator.New(validator.WithRequiredStructEnabled())
)

type options struct {
	autoPrint bool
}

// Option tunes the rendered document.
type Option func(*options)

// WithAutoPrint makes the document open the print dialog once it has loaded.
func WithAutoPrint() Option {
	return func(o *options) { o.autoPrint = true }
}

// Line is a rendered line item.
type Line struct {
	models.LineItem
	Amount float64
}

// TaxLine is a rendered tax row.
type TaxLine struct {
	models.Tax
	Amount float64
}

// Totals holds the computed amounts of a proposal, each rounded to cents.
type Totals struct {
	Lines    []Line
	Subtotal float64
	Discount float64
	Taxable  float64
	Taxes    []TaxLine
	Total    float64
}

// Compute derives line amounts, subtotal, discount, taxes and total. The discount never
// exceeds the subtotal and taxes apply to the discounted amount.
func Compute(p models.Proposal) Totals {
	var totals Totals

	totals.Lines = make([]Line, 0, len(p.Items))
	for _, item := range p.Items {
		amount := round2(item.Quantity * item.Rate)
		totals.Lines = append(totals.Lines, Line{LineItem: item, Amount: amount})
		totals.Subtotal += amount
	}
	totals.Subtotal = round2(totals.Subtotal)

	totals.Discount = round2(math.Min(math.Max(p.Discount, 0), totals.Subtotal))
	totals.Taxable = round2(totals.Subtotal - totals.Discount)

	total := totals.Taxable
	totals.Taxes = make([]TaxLine, 0, len(p.Taxes))
	for _, tax := range p.Taxes {
		amount := round2(totals.Taxable * tax.Percent / 100)
		totals.Taxes = append(totals.Taxes, TaxLine{Tax: tax, Amount: amount})
		total += amount
	}
	totals.Total = round2(total)

	return totals
}

type document struct {
	models.Proposal
	Totals
	NoteHTML  template.HTML
	AutoPrint bool
}

// Render validates the proposal and produces a self-contained A4 HTML document.
func Render(p models.Proposal, opts ...Option) (string, error) {
	var cfg options
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validate.Struct(p); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidProposal, err)
	}

	note, err := Sanitize(p.Note)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidProposal, err)
	}

	if p.Currency == "" {
		p.Currency = "USD"
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, document{
		Proposal:  p,
		Totals:    Compute(p),
		NoteHTML:  template.HTML(note),
		AutoPrint: cfg.autoPrint,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render proposal %s: %w", p.Number, err)
	}

	return buf.String(), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
