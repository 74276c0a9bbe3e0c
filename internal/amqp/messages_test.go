package amqp

import (
	"testing"

	"github.com/shopspring/decimal"

	"evn/internal/core"
)

func TestNewPeriodRegisteredMessage(t *testing.T) {
	period := core.BillingPeriod{Date: core.NewDate(2011, 3, 15)}
	for _, kind := range core.Kinds {
		period.Totals = append(period.Totals, core.CategoryTotal{Kind: kind})
	}
	period.Totals[0].Units = 12
	period.Totals[0].Net = decimal.RequireFromString("0.9076")

	msg := NewPeriodRegisteredMessage(period)
	if msg.Date != "2011-03-15" {
		t.Fatalf("date = %q, want 2011-03-15", msg.Date)
	}
	if len(msg.Categories) != len(core.Kinds) {
		t.Fatalf("categories = %d, want %d", len(msg.Categories), len(core.Kinds))
	}
	if msg.Categories[0].Kind != "NA" || msg.Categories[0].Units != 12 || msg.Categories[0].Net != "0.9076" {
		t.Fatalf("unexpected landline usage %+v", msg.Categories[0])
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	decoded, err := PeriodRegisteredMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.Date != msg.Date || len(decoded.Categories) != len(msg.Categories) {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}
