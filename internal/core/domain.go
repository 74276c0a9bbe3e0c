package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies one of the five usage categories by its invoice code.
type Kind string

const (
	Landline     Kind = "NA"   // land line calls (Festnetz)
	IntraNetwork Kind = "PI"   // calls inside the own network (netzintern)
	InterNetwork Kind = "NX"   // calls into other networks (netzextern)
	SMS          Kind = "SMS"  // text messages
	MobileData   Kind = "GPRS" // mobile web sessions
)

// Kinds lists all categories in the order they appear on the invoice
// and in every report.
var Kinds = []Kind{Landline, IntraNetwork, InterNetwork, SMS, MobileData}

// TaxFactor converts net amounts to gross amounts (19% VAT).
var TaxFactor = decimal.RequireFromString("1.19")

// DataChunkKB is the granularity the provider bills mobile data in.
const DataChunkKB = 100

type (
	Date struct {
		time.Time
	}

	// Tariff holds the per-unit prices of one category. Net is derived
	// from the published gross price.
	Tariff struct {
		Gross decimal.Decimal
		Net   decimal.Decimal
	}

	// CategoryTotal is one category's aggregation for one billing period.
	// Units are minutes, messages or kilobytes depending on the kind.
	CategoryTotal struct {
		Kind  Kind
		Units int64
		Net   decimal.Decimal
		Gross decimal.Decimal
	}

	// BillingPeriod is one invoice's worth of aggregated usage, keyed by
	// its invoice date. Totals always carries one entry per Kind, in
	// Kinds order, even for categories without any matched lines.
	BillingPeriod struct {
		Date   Date
		Totals []CategoryTotal
	}
)

var ErrUnknownKind = errors.New("unknown category kind")

// ParseKind maps an invoice code back to its Kind.
func ParseKind(code string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == code {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

// Unit returns the unit label counted for this kind.
func (k Kind) Unit() string {
	switch k {
	case SMS:
		return "SMS"
	case MobileData:
		return "kB"
	default:
		return "min"
	}
}

// Label returns the human readable category name used in reports.
func (k Kind) Label() string {
	switch k {
	case Landline:
		return "land line calls"
	case IntraNetwork:
		return "net internal calls"
	case InterNetwork:
		return "net external calls"
	case SMS:
		return "short messages"
	case MobileData:
		return "mobile traffic"
	default:
		return string(k)
	}
}

// Tariffs builds the pricing table from the published gross unit prices.
// The table is computed on demand from literals, so there is no mutable
// process-wide state and no initialization order to get wrong.
func Tariffs() map[Kind]Tariff {
	gross := map[Kind]string{
		Landline:     "0.09",
		IntraNetwork: "0.09",
		InterNetwork: "0.09",
		SMS:          "0.09",
		MobileData:   "0.49",
	}
	tariffs := make(map[Kind]Tariff, len(gross))
	for kind, price := range gross {
		g := decimal.RequireFromString(price)
		tariffs[kind] = Tariff{Gross: g, Net: g.Div(TaxFactor)}
	}
	return tariffs
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the canonical YYYY-MM-DD form used as the storage key.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Total returns the category total for the given kind.
func (p BillingPeriod) Total(kind Kind) (CategoryTotal, bool) {
	for _, t := range p.Totals {
		if t.Kind == kind {
			return t, true
		}
	}
	return CategoryTotal{}, false
}

func (p BillingPeriod) Validate() error {
	if err := p.Date.Validate(); err != nil {
		return err
	}
	if len(p.Totals) != len(Kinds) {
		return errors.New("billing period must carry one total per category")
	}
	for _, kind := range Kinds {
		if _, ok := p.Total(kind); !ok {
			return errors.New("billing period missing category " + string(kind))
		}
	}
	return nil
}
