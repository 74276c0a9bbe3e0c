// Package invoice turns the rendered text of an itemized phone invoice
// into aggregated per-category usage totals.
package invoice

import (
	"fmt"
	"regexp"

	"evn/internal/core"
)

// Field shapes shared by all detail line patterns. Amounts carry four
// decimals with a comma separator; durations are mm:ss.
const (
	dateFieldPat = `\d{2}\.\d{2}\.\d{2}`
	timePat      = `\d{2}:\d{2}:\d{2}`
	durationPat  = `\d+:\d{2}`
	pricePat     = `\d+,\d{4}`
)

var datePattern = regexp.MustCompile(`Rechnungsdatum: +(\d{2})\.(\d{2})\.(\d{4})`)

// callPattern matches one call detail line for the given category code:
// date, time, code, destination number, destination provider, duration,
// net price. Only the price is captured.
func callPattern(kind core.Kind) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`(?m)%s +%s +%s +\d+ +\S+ +%s +(%s)`,
		dateFieldPat, timePat, kind, durationPat, pricePat))
}

// smsPattern is call-shaped but counts messages, so the duration field is
// a plain integer quantity.
func smsPattern() *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`(?m)%s +%s +%s +\d+ +\S+ +\d+ +(%s)`,
		dateFieldPat, timePat, core.SMS, pricePat))
}

// dataPattern matches one mobile web session line: the gateway replaces
// the destination fields and both the transferred kilobytes and the net
// price are captured.
func dataPattern() *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`(?m)%s +%s +%s +internet\.online +- +%s/ +(\d+) +(%s)`,
		dateFieldPat, timePat, core.MobileData, durationPat, pricePat))
}

// pattern returns the detail line pattern for the given kind. None of the
// patterns can match across line boundaries: no expression in them
// matches a newline.
func pattern(kind core.Kind) *regexp.Regexp {
	switch kind {
	case core.SMS:
		return smsPattern()
	case core.MobileData:
		return dataPattern()
	default:
		return callPattern(kind)
	}
}
