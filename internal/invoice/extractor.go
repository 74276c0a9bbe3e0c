package invoice

import (
	"errors"
	"fmt"
	"strconv"

	"evn/internal/core"
)

// ErrNoInvoiceDate is returned when the rendered text carries no
// recognizable "Rechnungsdatum" line. Without a date no billing period
// can be created, so this is fatal for the whole invoice.
var ErrNoInvoiceDate = errors.New("could not extract the date of invoice")

// Warning records that a category's pattern matched zero lines. That is
// expected for months without usage of a category and does not abort the
// extraction; the category is still recorded with zero totals.
type Warning struct {
	Kind core.Kind
}

func (w Warning) String() string {
	return fmt.Sprintf("no connections of type %s", w.Kind)
}

// Extractor runs the date and category patterns against one rendered
// invoice text.
type Extractor struct {
	text    string
	tariffs map[core.Kind]core.Tariff
}

func NewExtractor(text string) *Extractor {
	return &Extractor{text: text, tariffs: core.Tariffs()}
}

// ExtractDate finds the invoice date line (dd.mm.yyyy).
func (e *Extractor) ExtractDate() (core.Date, error) {
	match := datePattern.FindStringSubmatch(e.text)
	if match == nil {
		return core.Date{}, ErrNoInvoiceDate
	}
	// the pattern guarantees digit-only groups
	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	return core.NewDate(year, month, day), nil
}

// ExtractCategory collects all detail lines of the given kind and feeds
// them into a fresh accumulator. found is false when the pattern matched
// zero lines; the returned total is zero-valued then.
func (e *Extractor) ExtractCategory(kind core.Kind) (total core.CategoryTotal, found bool, err error) {
	acc := NewAccumulator(kind, e.tariffs[kind])
	matches := pattern(kind).FindAllStringSubmatch(e.text, -1)
	if err := acc.Ingest(matches); err != nil {
		return core.CategoryTotal{}, false, err
	}
	return acc.Total(), acc.HasData(), nil
}

// Extract runs the full extraction: the invoice date first (fatal on
// failure), then each category independently. Categories without matches
// are reported as warnings and recorded with zero totals, so a period is
// always persisted with all five categories represented.
func Extract(text string) (core.BillingPeriod, []Warning, error) {
	e := NewExtractor(text)

	date, err := e.ExtractDate()
	if err != nil {
		return core.BillingPeriod{}, nil, err
	}

	period := core.BillingPeriod{Date: date}
	var warnings []Warning
	for _, kind := range core.Kinds {
		total, found, err := e.ExtractCategory(kind)
		if err != nil {
			return core.BillingPeriod{}, nil, err
		}
		if !found {
			warnings = append(warnings, Warning{Kind: kind})
		}
		period.Totals = append(period.Totals, total)
	}
	return period, warnings, nil
}
