package money

import "testing"

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{48.00, 4800},
		{96.00, 9600},
		{7.68, 768},
		{0.005, 1},
		{0.004, 0},
		{-0.005, -1},
		{19.99, 1999},
		{10.555, 1056},
	}
	for _, tc := range cases {
		if got := ToMinorUnits(tc.in); got != tc.want {
			t.Errorf("ToMinorUnits(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 101, 768, 9600, 11368, 1<<40 + 7} {
		if got := ToMinorUnits(ToMajorUnits(cents)); got != cents {
			t.Errorf("round trip of %d cents gave %d", cents, got)
		}
	}
}

func TestFormatCents(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{11368, "113.68"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := FormatCents(tc.in); got != tc.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
