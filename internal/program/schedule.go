package program

import (
	"log/slog"
	"time"

	"github.com/halteresai/server/internal/errors"
)

// ErrScheduleUnsatisfiable is returned when the forward scan cannot place
// the requested number of workouts within its safety window.
var ErrScheduleUnsatisfiable = errors.NewSentinel("cannot satisfy schedule within scan window")

// ScheduleDates computes the dates workouts should land on, formatted as
// YYYY-MM-DD.
//
// When weekdays is non-empty, it walks forward one calendar day at a time
// from start, emitting every date whose weekday is selected, until count
// dates are emitted. With an empty selection it emits count consecutive
// days starting at start.
//
// The scan is bounded at count*7+7 days. A non-empty weekday set always
// yields a date within any 7-day window, so the bound only trips on misuse.
func ScheduleDates(weekdays []time.Weekday, count int, start time.Time) ([]string, error) {
	dates := make([]string, 0, count)

	if len(weekdays) == 0 {
		for i := range count {
			dates = append(dates, start.AddDate(0, 0, i).Format(time.DateOnly))
		}
		return dates, nil
	}

	selected := make(map[time.Weekday]bool, len(weekdays))
	for _, day := range weekdays {
		selected[day] = true
	}

	maxScan := count*7 + 7
	current := start
	for scanned := 0; len(dates) < count; scanned++ {
		if scanned >= maxScan {
			return nil, errors.Wrap(ErrScheduleUnsatisfiable, "schedule dates",
				slog.Int("count", count), slog.Int("scanned", scanned))
		}
		if selected[current.Weekday()] {
			dates = append(dates, current.Format(time.DateOnly))
		}
		current = current.AddDate(0, 0, 1)
	}

	return dates, nil
}
