package invoice

import (
	"testing"

	"github.com/shopspring/decimal"

	"evn/internal/core"
)

func simpleMatch(price string) []string {
	return []string{"full line", price}
}

func dataMatch(quantity, price string) []string {
	return []string{"full line", quantity, price}
}

func TestAccumulatorSimple(t *testing.T) {
	tariffs := core.Tariffs()

	acc := NewAccumulator(core.Landline, tariffs[core.Landline])
	if acc.HasData() {
		t.Fatalf("fresh accumulator must not report data")
	}

	// one billed minute at the net unit price
	if err := acc.Ingest([][]string{simpleMatch("0,0756")}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	total := acc.Total()
	if total.Units != 1 {
		t.Fatalf("units = %d, want 1", total.Units)
	}
	if !total.Net.Equal(decimal.RequireFromString("0.0756")) {
		t.Fatalf("net = %s, want 0.0756", total.Net)
	}
	if !total.Gross.Equal(decimal.RequireFromString("0.089964")) {
		t.Fatalf("gross = %s, want 0.089964", total.Gross)
	}
	if !acc.HasData() {
		t.Fatalf("accumulator must report data after ingest")
	}

	// a three minute call and another single minute accumulate on top
	if err := acc.Ingest([][]string{simpleMatch("0,2269"), simpleMatch("0,0756")}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	total = acc.Total()
	if total.Units != 5 {
		t.Fatalf("units = %d, want 5", total.Units)
	}
	if !total.Net.Equal(decimal.RequireFromString("0.3781")) {
		t.Fatalf("net = %s, want 0.3781", total.Net)
	}
}

func TestAccumulatorDataChunkRounding(t *testing.T) {
	cases := []struct {
		quantity string
		units    int64
	}{
		{"0", 100},   // a session bills at least one chunk
		{"100", 200}, // chunk-aligned usage still adds a full extra chunk
		{"150", 200},
		{"199", 200},
		{"250", 300},
	}
	tariffs := core.Tariffs()
	for _, tc := range cases {
		acc := NewAccumulator(core.MobileData, tariffs[core.MobileData])
		if err := acc.Ingest([][]string{dataMatch(tc.quantity, "0,0049")}); err != nil {
			t.Fatalf("quantity %s: %v", tc.quantity, err)
		}
		if got := acc.Total().Units; got != tc.units {
			t.Fatalf("quantity %s billed %d kB, want %d", tc.quantity, got, tc.units)
		}
	}
}

func TestAccumulatorDataCosts(t *testing.T) {
	tariffs := core.Tariffs()
	acc := NewAccumulator(core.MobileData, tariffs[core.MobileData])
	if err := acc.Ingest([][]string{dataMatch("150", "0,0049"), dataMatch("320", "0,0098")}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	total := acc.Total()
	if total.Units != 600 { // 200 + 400
		t.Fatalf("units = %d, want 600", total.Units)
	}
	if !total.Net.Equal(decimal.RequireFromString("0.0147")) {
		t.Fatalf("net = %s, want 0.0147", total.Net)
	}
	if !total.Gross.Equal(decimal.RequireFromString("0.017493")) {
		t.Fatalf("gross = %s, want 0.017493", total.Gross)
	}
}

func TestAccumulatorMalformedNumbers(t *testing.T) {
	tariffs := core.Tariffs()

	acc := NewAccumulator(core.SMS, tariffs[core.SMS])
	if err := acc.Ingest([][]string{simpleMatch("0,07,56")}); err == nil {
		t.Fatalf("expected error for malformed price")
	}

	data := NewAccumulator(core.MobileData, tariffs[core.MobileData])
	if err := data.Ingest([][]string{dataMatch("abc", "0,0049")}); err == nil {
		t.Fatalf("expected error for malformed quantity")
	}
}

func TestAccumulatorZeroIngests(t *testing.T) {
	acc := NewAccumulator(core.SMS, core.Tariffs()[core.SMS])
	if err := acc.Ingest(nil); err != nil {
		t.Fatalf("zero ingests must not error, got %v", err)
	}
	if acc.HasData() {
		t.Fatalf("zero ingests must not report data")
	}
	if acc.Total().Units != 0 || !acc.Total().Net.IsZero() {
		t.Fatalf("zero ingests must leave totals at zero")
	}
}
