package domain

import "testing"

func TestFormatINR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount int64
		want   string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{42500, "₹42,500"},
		{100000, "₹1,00,000"},
		{4850000, "₹48,50,000"},
		{12345678, "₹1,23,45,678"},
		{1000000000, "₹1,00,00,00,000"},
		{-42500, "-₹42,500"},
	}

	for _, tt := range tests {
		if got := FormatINR(tt.amount); got != tt.want {
			t.Errorf("FormatINR(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestValidRating(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{RatingGood, RatingAverage, RatingBad} {
		if !ValidRating(valid) {
			t.Errorf("ValidRating(%q) = false", valid)
		}
	}
	for _, invalid := range []string{"", "amazing", "GOOD", "terrible"} {
		if ValidRating(invalid) {
			t.Errorf("ValidRating(%q) = true", invalid)
		}
	}
}
