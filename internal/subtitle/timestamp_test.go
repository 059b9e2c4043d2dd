package subtitle

import (
	"errors"
	"math"
	"regexp"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{0.4, "00:00:00,400"},
		{0.9, "00:00:00,900"},
		{1.5, "00:00:01,500"},
		{59.9994, "00:00:59,999"},
		{59.9996, "00:01:00,000"},
		{61.123, "00:01:01,123"},
		{3600, "01:00:00,000"},
		// 3661.2005 * 1000 is exactly 3661200.5 in float64, rounded away from zero
		{3661.2005, "01:01:01,201"},
		{0.0005, "00:00:00,001"},
		{7200.5, "02:00:00,500"},
		// hours keep counting past a day
		{90000, "25:00:00,000"},
		{360000.25, "100:00:00,250"},
	}

	for _, tt := range tests {
		got, err := FormatTimestamp(tt.seconds)
		if err != nil {
			t.Errorf("FormatTimestamp(%v) returned error: %v", tt.seconds, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTimestampLayout(t *testing.T) {
	layout := regexp.MustCompile(`^\d{2,}:[0-5]\d:[0-5]\d,\d{3}$`)

	for s := 0.0; s < 200000; s += 987.6543 {
		got, err := FormatTimestamp(s)
		if err != nil {
			t.Fatalf("FormatTimestamp(%v) returned error: %v", s, err)
		}
		if !layout.MatchString(got) {
			t.Errorf("FormatTimestamp(%v) = %q, does not match HH:MM:SS,mmm", s, got)
		}
	}
}

func TestFormatTimestampRejectsInvalid(t *testing.T) {
	for _, s := range []float64{-1, -0.001, math.NaN(), math.Inf(1), 9.3e15, 1e300} {
		_, err := FormatTimestamp(s)
		if err == nil {
			t.Errorf("FormatTimestamp(%v) expected error", s)
			continue
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("FormatTimestamp(%v) error = %v, want ErrInvalidInput", s, err)
		}
	}
}

func TestFormatTimestampLargestValue(t *testing.T) {
	// 9e15 s is 9e18 ms, just below the int64 limit
	got, err := FormatTimestamp(9e15)
	if err != nil {
		t.Fatalf("FormatTimestamp(9e15) returned error: %v", err)
	}
	if want := "2500000000000:00:00,000"; got != want {
		t.Errorf("FormatTimestamp(9e15) = %q, want %q", got, want)
	}
}
