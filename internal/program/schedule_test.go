package program

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/halteresai/server/internal/errors"
)

func TestScheduleDates(t *testing.T) {
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		weekdays []time.Weekday
		count    int
		start    time.Time
		want     []string
	}{
		{
			name:     "mondays and wednesdays",
			weekdays: []time.Weekday{time.Monday, time.Wednesday},
			count:    4,
			start:    monday,
			want:     []string{"2024-01-01", "2024-01-03", "2024-01-08", "2024-01-10"},
		},
		{
			name:     "start not on a selected day",
			weekdays: []time.Weekday{time.Friday},
			count:    2,
			start:    monday,
			want:     []string{"2024-01-05", "2024-01-12"},
		},
		{
			name:  "no selection gives consecutive days",
			count: 3,
			start: monday,
			want:  []string{"2024-01-01", "2024-01-02", "2024-01-03"},
		},
		{
			name:     "crosses month boundary",
			weekdays: []time.Weekday{time.Sunday},
			count:    2,
			start:    time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
			want:     []string{"2024-01-28", "2024-02-04"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScheduleDates(tt.weekdays, tt.count, tt.start)
			if err != nil {
				t.Fatalf("ScheduleDates() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ScheduleDates() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScheduleDates_unsatisfiable(t *testing.T) {
	// A weekday outside 0..6 never matches any calendar day, so the scan
	// window must trip instead of looping forever.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := ScheduleDates([]time.Weekday{time.Weekday(12)}, 3, start)
	if !errors.Is(err, ErrScheduleUnsatisfiable) {
		t.Errorf("ScheduleDates() error = %v, want ErrScheduleUnsatisfiable", err)
	}
}

func TestScheduleDates_lengthAlwaysMatchesCount(t *testing.T) {
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, weekdays := range [][]time.Weekday{
		nil,
		{time.Monday},
		{time.Tuesday, time.Thursday, time.Saturday},
	} {
		got, err := ScheduleDates(weekdays, 12, start)
		if err != nil {
			t.Fatalf("ScheduleDates(%v) error = %v", weekdays, err)
		}
		if len(got) != 12 {
			t.Errorf("ScheduleDates(%v) returned %d dates, want 12", weekdays, len(got))
		}
	}
}
