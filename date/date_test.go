package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestFromTime(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	tests := []struct {
		name string
		in   time.Time
		want Date
	}{
		{"late evening in New York", time.Date(2024, time.March, 1, 23, 30, 0, 0, ny), New(2024, time.March, 1)},
		{"early morning in Tokyo", time.Date(2024, time.March, 1, 0, 30, 0, 0, time.FixedZone("JST", 9*3600)), New(2024, time.March, 1)},
		{"utc", time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC), New(2024, time.March, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromTime(tt.in); got != tt.want {
				t.Errorf("FromTime(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddMonth(t *testing.T) {
	tests := []struct {
		in   Date
		n    int
		want Date
	}{
		{New(2025, time.March, 31), -1, New(2025, time.February, 28)},
		{New(2024, time.March, 31), -1, New(2024, time.February, 29)},
		{New(2025, time.January, 15), -11, New(2024, time.February, 15)},
		{New(2025, time.December, 31), 2, New(2026, time.February, 28)},
		{New(2024, time.February, 29), -12, New(2023, time.February, 28)},
	}
	for _, tt := range tests {
		if got := tt.in.AddMonth(tt.n); got != tt.want {
			t.Errorf("%v.AddMonth(%d) = %v, want %v", tt.in, tt.n, got, tt.want)
		}
	}
	if got := New(2024, time.February, 29).AddYear(1); got != New(2025, time.February, 28) {
		t.Errorf("AddYear(1) = %v, want 2025-02-28", got)
	}
}

func TestSub(t *testing.T) {
	a := New(2024, time.January, 1)
	b := New(2025, time.January, 1)
	if got := b.Sub(a); got != 366 {
		t.Errorf("Sub() = %d, want 366", got)
	}
	if got := a.Sub(b); got != -366 {
		t.Errorf("Sub() = %d, want -366", got)
	}
	if got := a.Add(365).Sub(a); got != 365 {
		t.Errorf("Add(365).Sub() = %d, want 365", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", New(2025, time.January, 15), false},
		{"2025-7-1", New(2025, time.July, 1), false},
		{"invalid-date", Date{}, true},
		{"2025-13-01", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	var got struct {
		On Date `json:"on"`
	}
	if err := json.Unmarshal([]byte(`{"on":"2024-2-9"}`), &got); err != nil {
		t.Fatalf("Unmarshal() unexpected error = %v", err)
	}
	if got.On != New(2024, time.February, 9) {
		t.Errorf("Unmarshal() = %v, want 2024-02-09", got.On)
	}
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal() unexpected error = %v", err)
	}
	if string(data) != `{"on":"2024-02-09"}` {
		t.Errorf("Marshal() = %s", data)
	}
}
