package program

import (
	"strconv"
	"strings"
	"time"
)

const (
	defaultGoal        = "General fitness"
	defaultDifficulty  = "Intermediate"
	defaultProgramType = "linear"
	defaultWeeks       = 4
	defaultDaysPerWeek = 3
)

// Params is the canonical set of generation settings after alias resolution.
type Params struct {
	Goal             string
	Difficulty       string
	FocusArea        string
	AdditionalNotes  string
	Personalization  string
	WorkoutFormats   []string
	Weeks            int
	DaysPerWeek      int
	ProgramType      string
	Equipment        []string
	GymType          string
	StartDate        string
	TotalWorkouts    int
	SelectedWeekdays []time.Weekday
}

// ExtractParams normalizes a raw generation request into Params.
//
// Clients have submitted the same logical fields under different names over
// time, so each field resolves through its aliases in priority order and
// falls back to a default. Missing or malformed optional fields never fail;
// numeric fields revert to their default when non-numeric.
func ExtractParams(raw map[string]any) Params {
	weeks := intField(defaultWeeks, raw["duration_weeks"], raw["numberOfWeeks"])
	daysPerWeek := intField(defaultDaysPerWeek, raw["days_per_week"], raw["daysPerWeek"])

	periodization, _ := raw["periodization"].(map[string]any)
	gymDetails, _ := raw["gym_details"].(map[string]any)
	calendar, _ := raw["calendar_data"].(map[string]any)

	return Params{
		Goal:             stringField(defaultGoal, raw["goal"]),
		Difficulty:       stringField(defaultDifficulty, raw["difficulty"]),
		FocusArea:        stringField("", raw["focus_area"]),
		AdditionalNotes:  stringField("", raw["description"]),
		Personalization:  stringField("", raw["personalization"]),
		WorkoutFormats:   stringSliceField(raw["workout_format"]),
		Weeks:            weeks,
		DaysPerWeek:      daysPerWeek,
		ProgramType:      stringField(defaultProgramType, mapValue(periodization, "program_type"), raw["programType"]),
		Equipment:        stringSliceField(mapValue(gymDetails, "equipment"), raw["equipment"]),
		GymType:          stringField("", mapValue(gymDetails, "gym_type"), raw["gymType"]),
		StartDate:        stringField("", mapValue(calendar, "start_date"), raw["startDate"]),
		TotalWorkouts:    weeks * daysPerWeek,
		SelectedWeekdays: weekdayField(mapValue(calendar, "days_of_week")),
	}
}

func mapValue(m map[string]any, key string) any {
	if m == nil {
		return nil
	}
	return m[key]
}

// stringField returns the first non-empty string among the candidates.
func stringField(fallback string, candidates ...any) string {
	for _, candidate := range candidates {
		if s, ok := candidate.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// intField returns the first candidate that parses as a positive integer.
// JSON numbers arrive as float64; strings are tolerated for older clients.
func intField(fallback int, candidates ...any) int {
	for _, candidate := range candidates {
		if n, ok := asInt(candidate); ok && n > 0 {
			return n
		}
	}
	return fallback
}

func asInt(v any) (int, bool) {
	switch value := v.(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// stringSliceField returns the first candidate that is a non-empty list of
// strings. Non-string elements are skipped.
func stringSliceField(candidates ...any) []string {
	for _, candidate := range candidates {
		var result []string
		switch value := candidate.(type) {
		case []string:
			result = value
		case []any:
			for _, element := range value {
				if s, ok := element.(string); ok {
					result = append(result, s)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return nil
}

// weekdayField converts a list of weekday indices (0=Sunday..6=Saturday,
// matching time.Weekday) into weekdays, dropping out-of-range values.
func weekdayField(v any) []time.Weekday {
	var weekdays []time.Weekday
	appendDay := func(n int) {
		if n >= 0 && n <= 6 {
			weekdays = append(weekdays, time.Weekday(n))
		}
	}
	switch value := v.(type) {
	case []any:
		for _, element := range value {
			if n, ok := asInt(element); ok {
				appendDay(n)
			}
		}
	case []int:
		for _, n := range value {
			appendDay(n)
		}
	}
	return weekdays
}
