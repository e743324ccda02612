package program

import (
	"fmt"
	"strconv"
	"strings"
)

const clientMetricsGuidance = `When calculating RX weights, scale them appropriately based on the client's strength metrics (bench, squat, deadlift) if available.
For other movements, estimate appropriate weights based on the client's metrics, gender, and strength levels.
If client metrics indicate specific limitations, provide appropriate scaling options.`

const referenceWorkoutsGuidance = `Draw inspiration from these reference workouts when designing this program. ` +
	`Use similar structures, movement patterns, and approaches where appropriate.`

// formatClientMetrics renders the known client measurements for prompt
// inclusion, followed by fixed weight-scaling guidance. Unknown measurements
// are omitted. Returns the empty string when nothing is known.
func formatClientMetrics(m ClientMetrics) string {
	var lines []string
	addString := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	addNumber := func(label string, value float64, unit string) {
		if value != 0 {
			lines = append(lines, label+": "+formatNumber(value)+unit)
		}
	}

	addString("Gender", m.Gender)
	addNumber("Height", m.HeightCM, " cm")
	addNumber("Weight", m.WeightKG, " kg")
	addNumber("Bench Press 1RM", m.Bench1RM, " kg")
	addNumber("Squat 1RM", m.Squat1RM, " kg")
	addNumber("Deadlift 1RM", m.Deadlift1RM, " kg")
	addString("Mile Time", m.MileTime)
	if m.RecoveryScore != 0 {
		lines = append(lines, fmt.Sprintf("Recovery Score: %s/10", formatNumber(m.RecoveryScore)))
	}
	addString("Injury History", m.InjuryHistory)

	if len(lines) == 0 {
		return ""
	}

	return "Client Metrics:\n" + strings.Join(lines, "\n") + "\n\n" + clientMetricsGuidance
}

// formatReferenceWorkouts renders reference workouts for prompt inclusion as
// a numbered list with imitation guidance. Returns the empty string when
// there are none.
func formatReferenceWorkouts(references []ReferenceWorkout) string {
	if len(references) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Reference Workouts for Inspiration:\n")
	for i, reference := range references {
		fmt.Fprintf(&b, "Reference %d: %s\n%s\n---\n", i+1, reference.Title, reference.Body)
	}
	b.WriteString("\n")
	b.WriteString(referenceWorkoutsGuidance)
	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
