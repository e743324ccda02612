package program

import (
	"strings"
	"testing"
)

func TestFormatClientMetrics(t *testing.T) {
	t.Run("empty metrics give empty string", func(t *testing.T) {
		if got := formatClientMetrics(ClientMetrics{}); got != "" {
			t.Errorf("formatClientMetrics() = %q, want empty", got)
		}
	})

	t.Run("known measurements are listed, unknown omitted", func(t *testing.T) {
		got := formatClientMetrics(ClientMetrics{
			Gender:        "female",
			WeightKG:      72.5,
			Squat1RM:      110,
			RecoveryScore: 8,
		})

		for _, want := range []string{
			"Client Metrics:",
			"Gender: female",
			"Weight: 72.5 kg",
			"Squat 1RM: 110 kg",
			"Recovery Score: 8/10",
			"When calculating RX weights",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("formatClientMetrics() missing %q in:\n%s", want, got)
			}
		}
		for _, absent := range []string{"Height", "Bench Press", "Deadlift", "Mile Time", "Injury History"} {
			if strings.Contains(got, absent) {
				t.Errorf("formatClientMetrics() should omit %q in:\n%s", absent, got)
			}
		}
	})

	t.Run("repeated calls give identical output", func(t *testing.T) {
		metrics := ClientMetrics{
			Gender:        "male",
			HeightCM:      182,
			WeightKG:      90,
			Squat1RM:      160,
			InjuryHistory: "lower back tweak 2023",
		}
		first := formatClientMetrics(metrics)
		second := formatClientMetrics(metrics)
		if first != second {
			t.Errorf("formatClientMetrics() not deterministic:\n%s\nvs\n%s", first, second)
		}
	})
}

func TestHasInjuryHistory(t *testing.T) {
	tests := []struct {
		history string
		want    bool
	}{
		{"", false},
		{"   \n\t", false},
		{"left knee surgery 2022", true},
	}
	for _, tt := range tests {
		m := ClientMetrics{InjuryHistory: tt.history}
		if got := m.HasInjuryHistory(); got != tt.want {
			t.Errorf("HasInjuryHistory(%q) = %v, want %v", tt.history, got, tt.want)
		}
	}
}

func TestFormatReferenceWorkouts(t *testing.T) {
	t.Run("empty gives empty string", func(t *testing.T) {
		if got := formatReferenceWorkouts(nil); got != "" {
			t.Errorf("formatReferenceWorkouts() = %q, want empty", got)
		}
	})

	t.Run("numbered in order with separators", func(t *testing.T) {
		got := formatReferenceWorkouts([]ReferenceWorkout{
			{Title: "Fran", Body: "21-15-9 thrusters and pull-ups"},
			{Title: "Cindy", Body: "20min AMRAP"},
		})

		first := strings.Index(got, "Reference 1: Fran")
		second := strings.Index(got, "Reference 2: Cindy")
		if first == -1 || second == -1 || second < first {
			t.Errorf("formatReferenceWorkouts() ordering wrong:\n%s", got)
		}
		if strings.Count(got, "---") != 2 {
			t.Errorf("formatReferenceWorkouts() wants a separator per reference:\n%s", got)
		}
		if !strings.Contains(got, "Draw inspiration from these reference workouts") {
			t.Errorf("formatReferenceWorkouts() missing guidance:\n%s", got)
		}
	})

	t.Run("repeated calls give identical output", func(t *testing.T) {
		references := []ReferenceWorkout{
			{Title: "Fran", Body: "21-15-9 thrusters and pull-ups"},
			{Title: "Cindy", Body: "20min AMRAP"},
		}
		first := formatReferenceWorkouts(references)
		second := formatReferenceWorkouts(references)
		if first != second {
			t.Errorf("formatReferenceWorkouts() not deterministic:\n%s\nvs\n%s", first, second)
		}
	})
}
