package etl

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-07-15", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-07-15 08:30:00", time.Date(2025, 7, 15, 8, 30, 0, 0, time.UTC)},
		{"15/07/2025", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)},
		{"1/7/2025", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{"1 janv. 2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"15 juillet 2025", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)},
		{"3 août 2025", time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)},
		{"28 févr. 2025", time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{" 2 déc. 2024 ", time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if err != nil {
			t.Errorf("ParseDate(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "32 janv. 2024", "1 brumaire 2024", "Total"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q): expected error", in)
		}
	}
}

// The engagement boundary is strict: the start date itself already counts as
// the agency period.
func TestStageFor(t *testing.T) {
	cases := []struct {
		date  time.Time
		stage string
	}{
		{time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), StagePre},
		{time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), StageCon},
		{time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC), StageCon},
		{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), StagePre},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), StageCon},
	}

	for _, tc := range cases {
		if got := StageFor(tc.date); got != tc.stage {
			t.Errorf("StageFor(%s) = %q, want %q", tc.date.Format("2006-01-02"), got, tc.stage)
		}
	}
}
