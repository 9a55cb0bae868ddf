package util

import "testing"

func TestUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{21450.5, "$21,451"},
		{1299, "$1,299"},
	}
	for _, tt := range tests {
		if got := USD(tt.in); got != tt.want {
			t.Errorf("USD(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(92.14); got != "92.1%" {
		t.Errorf("Percent(92.14) = %q", got)
	}
	if got := Percent(80); got != "80.0%" {
		t.Errorf("Percent(80) = %q", got)
	}
}

func TestGrams(t *testing.T) {
	if got := Grams(41000.4); got != "41,000 g" {
		t.Errorf("Grams(41000.4) = %q", got)
	}
}

func TestTitle(t *testing.T) {
	if got := Title("HIGH risk"); got != "High Risk" {
		t.Errorf("Title = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "EV-1", 10, "EV-1"},
		{"cut", "Vehicle-123456", 8, "Vehicle…"},
		{"zero keeps", "abc", 0, "abc"},
		{"one", "abc", 1, "…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
