package divyield

import (
	"testing"
	"time"

	"github.com/etnz/divyield/date"
)

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		in      string
		want    Granularity
		wantErr bool
	}{
		{"", Auto, false},
		{"auto", Auto, false},
		{"daily", Daily, false},
		{"Day", Daily, false},
		{"monthly", Monthly, false},
		{"month", Monthly, false},
		{"weekly", Auto, true},
		{"hourly", Auto, true},
	}
	for _, tt := range tests {
		got, err := ParseGranularity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGranularity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGranularity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDetectGranularity(t *testing.T) {
	daily := []PricePoint{
		{Date: date.New(2025, time.January, 2)},
		{Date: date.New(2025, time.January, 3)},
		{Date: date.New(2025, time.January, 6)},
		{Date: date.New(2025, time.January, 7)},
	}
	monthly := []PricePoint{
		{Date: date.New(2025, time.March, 1)},
		{Date: date.New(2025, time.January, 1)},
		{Date: date.New(2025, time.February, 1)},
	}
	tests := []struct {
		name string
		in   []PricePoint
		want Granularity
	}{
		{"empty", nil, Daily},
		{"single", daily[:1], Daily},
		{"trading days", daily, Daily},
		{"unsorted month starts", monthly, Monthly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectGranularity(tt.in); got != tt.want {
				t.Errorf("DetectGranularity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseInterval(t *testing.T) {
	for _, s := range []string{"1d", "1WK", " 1mo"} {
		if _, err := ParseInterval(s); err != nil {
			t.Errorf("ParseInterval(%q) unexpected error = %v", s, err)
		}
	}
	if _, err := ParseInterval("1h"); err == nil {
		t.Errorf("ParseInterval(%q) expected an error", "1h")
	}
	if got := OneMonth.Period(); got != date.Monthly {
		t.Errorf("OneMonth.Period() = %v", got)
	}
}
