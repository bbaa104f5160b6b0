package repository

import "testing"

func TestNormalizeTimeframe(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "240"},
		{"240", "240"},
		{"4hours", "4H"},
		{"1Hour", "1H"},
		{"15min", "15M"},
		{"30 mins ", "30M"},
		{"D", "D"},
	}
	for _, c := range cases {
		if got := NormalizeTimeframe(c.in); got != c.want {
			t.Fatalf("NormalizeTimeframe(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
