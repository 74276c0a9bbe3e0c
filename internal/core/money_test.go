package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"0,0756", "0.0756", true},
		{"1,23", "1.23", true},
		{"12.34", "12.34", true},
		{" 2,50 ", "2.5", true},
		{"0", "0", true},
		{"-1,00", "", false},
		{"1,2,3", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("%q unexpected error: %v", tc.in, err)
			}
			if got.String() != tc.out {
				t.Fatalf("%q parsed to %s, want %s", tc.in, got, tc.out)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}
