package invoice

import (
	"fmt"
	"strconv"

	"evn/internal/core"
)

// Accumulator aggregates the matched detail lines of one category into a
// running CategoryTotal. How a matched line contributes depends on the
// category kind, dispatched through ingestors.
type Accumulator struct {
	tariff core.Tariff
	total  core.CategoryTotal
	lines  int
}

type ingestFunc func(a *Accumulator, fields []string) error

// ingestors maps each category kind to its accumulation rule. Simple
// categories derive the unit count from the net price; mobile data bills
// the reported kilobytes rounded up to full chunks.
var ingestors = map[core.Kind]ingestFunc{
	core.Landline:     (*Accumulator).ingestSimple,
	core.IntraNetwork: (*Accumulator).ingestSimple,
	core.InterNetwork: (*Accumulator).ingestSimple,
	core.SMS:          (*Accumulator).ingestSimple,
	core.MobileData:   (*Accumulator).ingestData,
}

// NewAccumulator creates an accumulator for the given kind using the
// kind's tariff from the pricing table.
func NewAccumulator(kind core.Kind, tariff core.Tariff) *Accumulator {
	return &Accumulator{
		tariff: tariff,
		total:  core.CategoryTotal{Kind: kind},
	}
}

// Ingest feeds the submatch tuples of the category's pattern into the
// accumulator. A malformed numeric field is fatal for the whole invoice
// and aborts with an error; totals may be partially updated then and must
// be discarded by the caller.
func (a *Accumulator) Ingest(matches [][]string) error {
	ingest := ingestors[a.total.Kind]
	for _, fields := range matches {
		if err := ingest(a, fields); err != nil {
			return fmt.Errorf("category %s: %w", a.total.Kind, err)
		}
	}
	return nil
}

// ingestSimple handles the call-shaped categories and SMS. fields[1] is
// the captured net price. The unit count is derived from the price
// instead of the duration field: minutes are billed whole, so the net
// price is always a whole multiple of the net unit price.
func (a *Accumulator) ingestSimple(fields []string) error {
	price, err := core.ParseAmount(fields[1])
	if err != nil {
		return err
	}
	a.total.Net = a.total.Net.Add(price)
	a.total.Gross = a.total.Gross.Add(price.Mul(core.TaxFactor))
	a.total.Units += price.Div(a.tariff.Net).Round(0).IntPart()
	a.lines++
	return nil
}

// ingestData handles mobile web sessions. fields[1] is the transferred
// quantity in KB, fields[2] the captured net price. The provider bills
// full 100KB chunks: the billed quantity is rounded up to the next chunk
// boundary, and a chunk-aligned quantity still adds one full extra chunk.
// That reproduces the observed reference billing exactly; see DESIGN.md.
func (a *Accumulator) ingestData(fields []string) error {
	quantity, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", core.ErrInvalidAmount, fields[1])
	}
	price, err := core.ParseAmount(fields[2])
	if err != nil {
		return err
	}
	a.total.Net = a.total.Net.Add(price)
	a.total.Gross = a.total.Gross.Add(price.Mul(core.TaxFactor))
	a.total.Units += quantity + (core.DataChunkKB - quantity%core.DataChunkKB)
	a.lines++
	return nil
}

// HasData reports whether at least one line was ingested.
func (a *Accumulator) HasData() bool {
	return a.lines > 0
}

// Total returns the accumulated category total.
func (a *Accumulator) Total() core.CategoryTotal {
	return a.total
}
