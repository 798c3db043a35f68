package core

import "testing"

func TestParseWon(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"500000", 500000, true},
		{"500,000", 500000, true},
		{"1,000,000원", 1000000, true},
		{" 0 ", 0, true},
		{"-1", 0, false},
		{"1.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"원", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseWon(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatWon(t *testing.T) {
	cases := map[int64]string{
		0:        "0원",
		999:      "999원",
		1000:     "1,000원",
		500000:   "500,000원",
		1500000:  "1,500,000원",
		-2500000: "-2,500,000원",
	}
	for in, want := range cases {
		if got := FormatWon(in); got != want {
			t.Fatalf("FormatWon(%d) = %q, want %q", in, got, want)
		}
	}
}
