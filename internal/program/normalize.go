package program

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/halteresai/server/internal/errors"
)

var (
	// ErrUnparsableResponse means the model response was not valid JSON.
	ErrUnparsableResponse = errors.NewSentinel("failed to parse response as JSON")
	// ErrNoWorkouts means no recognizable workouts collection was found.
	ErrNoWorkouts = errors.NewSentinel("invalid response format: could not find workouts array")
)

const (
	noBodyPlaceholder = "No description provided"
	noOverview        = "No overview provided"
	successMessage    = "Program generated successfully"
)

// shapeMatcher recognizes one historical response layout and extracts the
// raw workouts plus any program-level fields. Matchers are tried in a fixed
// priority order; the first match wins.
type shapeMatcher struct {
	name  string
	match func(raw []byte, parsed any) (extraction, bool)
}

type extraction struct {
	workouts    []any
	title       string
	description string
	overview    string
}

// shapeChain lists the response layouts seen from models over time, most
// specific first.
var shapeChain = []shapeMatcher{
	{name: "direct workouts", match: matchDirectWorkouts},
	{name: "bare array", match: matchBareArray},
	{name: "training_program", match: matchTrainingProgram},
	{name: "array property", match: matchArrayProperty},
	{name: "single workout", match: matchSingleWorkout},
}

// NormalizeResponse coerces a raw model response into a NormalizedProgram.
//
// The schedule provides fallback dates for workouts the model returned
// without one; now backstops workouts beyond the schedule. Dates the model
// did return are accepted as-is, even when they stray from the schedule.
func NormalizeResponse(raw string, schedule []string, now time.Time) (NormalizedProgram, error) {
	rawBytes := []byte(raw)

	var parsed any
	if err := json.Unmarshal(rawBytes, &parsed); err != nil {
		return NormalizedProgram{}, errors.Wrap(ErrUnparsableResponse, err.Error(),
			slog.String("raw", truncate(raw, 512)))
	}

	var (
		extracted extraction
		matched   bool
	)
	for _, matcher := range shapeChain {
		if extracted, matched = matcher.match(rawBytes, parsed); matched {
			break
		}
	}
	if !matched {
		return NormalizedProgram{}, ErrNoWorkouts
	}

	suggestions := make([]Suggestion, len(extracted.workouts))
	for i, rawWorkout := range extracted.workouts {
		suggestions[i] = coerceWorkout(rawWorkout, i, schedule, now)
	}

	overview := extracted.overview
	if overview == "" {
		overview = noOverview
	}

	return NormalizedProgram{
		Message:     successMessage,
		Title:       extracted.title,
		Description: extracted.description,
		Overview:    overview,
		Suggestions: suggestions,
	}, nil
}

// matchDirectWorkouts handles the requested format: an object with a
// "workouts" array and title/description/overview siblings.
func matchDirectWorkouts(_ []byte, parsed any) (extraction, bool) {
	object, ok := parsed.(map[string]any)
	if !ok {
		return extraction{}, false
	}
	workouts, ok := object["workouts"].([]any)
	if !ok {
		return extraction{}, false
	}
	title, _ := object["title"].(string)
	description, _ := object["description"].(string)
	overview, _ := object["overview"].(string)
	return extraction{workouts: workouts, title: title, description: description, overview: overview}, true
}

// matchBareArray handles the legacy format of a top-level array.
func matchBareArray(_ []byte, parsed any) (extraction, bool) {
	workouts, ok := parsed.([]any)
	if !ok {
		return extraction{}, false
	}
	return extraction{workouts: workouts}, true
}

// matchTrainingProgram handles objects keyed "training_program".
func matchTrainingProgram(_ []byte, parsed any) (extraction, bool) {
	object, ok := parsed.(map[string]any)
	if !ok {
		return extraction{}, false
	}
	workouts, ok := object["training_program"].([]any)
	if !ok {
		return extraction{}, false
	}
	return extraction{workouts: workouts}, true
}

// matchArrayProperty falls back to the first array-valued property in
// document order.
func matchArrayProperty(raw []byte, parsed any) (extraction, bool) {
	object, ok := parsed.(map[string]any)
	if !ok {
		return extraction{}, false
	}
	for _, key := range topLevelKeys(raw) {
		if workouts, isArray := object[key].([]any); isArray {
			return extraction{workouts: workouts}, true
		}
	}
	return extraction{}, false
}

// matchSingleWorkout treats an object carrying title and description as a
// one-workout program.
func matchSingleWorkout(_ []byte, parsed any) (extraction, bool) {
	object, ok := parsed.(map[string]any)
	if !ok {
		return extraction{}, false
	}
	title, hasTitle := object["title"].(string)
	description, hasDescription := object["description"].(string)
	if !hasTitle || title == "" || !hasDescription || description == "" {
		return extraction{}, false
	}
	return extraction{workouts: []any{parsed}}, true
}

// coerceWorkout fills in the required workout fields from whatever the model
// returned. The date falls back through date, suggestedDate, the scheduled
// date at the same index, and finally today.
func coerceWorkout(raw any, index int, schedule []string, now time.Time) Suggestion {
	object, _ := raw.(map[string]any)

	title, _ := object["title"].(string)
	if title == "" {
		title = fmt.Sprintf("Workout %d", index+1)
	}

	body, _ := object["body"].(string)
	if body == "" {
		body, _ = object["description"].(string)
	}
	if body == "" {
		body = noBodyPlaceholder
	}

	date, _ := object["date"].(string)
	if date == "" {
		date, _ = object["suggestedDate"].(string)
	}
	if date == "" && index < len(schedule) {
		date = schedule[index]
	}
	if date == "" {
		date = now.Format(time.DateOnly)
	}

	return Suggestion{Title: title, Body: body, Date: date}
}

// topLevelKeys returns the top-level object keys in document order, which a
// decoded map cannot preserve.
func topLevelKeys(raw []byte) []string {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	token, err := decoder.Token()
	if err != nil {
		return nil
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil
	}

	var keys []string
	depth := 0
	expectKey := true
	for {
		token, err = decoder.Token()
		if err != nil {
			return keys
		}
		switch value := token.(type) {
		case json.Delim:
			switch value {
			case '{', '[':
				depth++
			case '}', ']':
				if depth == 0 {
					return keys
				}
				depth--
			}
			if depth == 0 {
				expectKey = true
			}
		case string:
			if depth == 0 && expectKey {
				keys = append(keys, value)
				expectKey = false
				continue
			}
			if depth == 0 {
				expectKey = true
			}
		default:
			if depth == 0 {
				expectKey = true
			}
		}
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
