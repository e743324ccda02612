package program

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/halteresai/server/internal/errors"
)

var normalizeNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeResponse_shapes(t *testing.T) {
	schedule := []string{"2024-01-01", "2024-01-03"}

	tests := []struct {
		name string
		raw  string
		want NormalizedProgram
	}{
		{
			name: "direct workouts with program fields",
			raw: `{"title":"T","description":"D","overview":"O",
				"workouts":[{"title":"W1","body":"B1","date":"2024-01-01"}]}`,
			want: NormalizedProgram{
				Message:     "Program generated successfully",
				Title:       "T",
				Description: "D",
				Overview:    "O",
				Suggestions: []Suggestion{{Title: "W1", Body: "B1", Date: "2024-01-01"}},
			},
		},
		{
			name: "bare array",
			raw:  `[{"title":"A","body":"B"}]`,
			want: NormalizedProgram{
				Message:     "Program generated successfully",
				Overview:    "No overview provided",
				Suggestions: []Suggestion{{Title: "A", Body: "B", Date: "2024-01-01"}},
			},
		},
		{
			name: "training_program property",
			raw:  `{"training_program":[{"title":"A","body":"B"}]}`,
			want: NormalizedProgram{
				Message:     "Program generated successfully",
				Overview:    "No overview provided",
				Suggestions: []Suggestion{{Title: "A", Body: "B", Date: "2024-01-01"}},
			},
		},
		{
			name: "first array property in document order",
			raw:  `{"note":"x","plan":[{"title":"A","body":"B"}],"other":[{"title":"Z","body":"Y"}]}`,
			want: NormalizedProgram{
				Message:     "Program generated successfully",
				Overview:    "No overview provided",
				Suggestions: []Suggestion{{Title: "A", Body: "B", Date: "2024-01-01"}},
			},
		},
		{
			name: "single workout object",
			raw:  `{"title":"Solo","description":"one off"}`,
			want: NormalizedProgram{
				Message:     "Program generated successfully",
				Overview:    "No overview provided",
				Suggestions: []Suggestion{{Title: "Solo", Body: "one off", Date: "2024-01-01"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeResponse(tt.raw, schedule, normalizeNow)
			if err != nil {
				t.Fatalf("NormalizeResponse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeResponse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeResponse_coercion(t *testing.T) {
	schedule := []string{"2024-01-01", "2024-01-03"}
	raw := `{"workouts":[
		{},
		{"description":"from description","suggestedDate":"2024-02-02"},
		{"title":"third","body":"b"}
	]}`

	got, err := NormalizeResponse(raw, schedule, normalizeNow)
	if err != nil {
		t.Fatalf("NormalizeResponse() error = %v", err)
	}

	want := []Suggestion{
		{Title: "Workout 1", Body: "No description provided", Date: "2024-01-01"},
		{Title: "Workout 2", Body: "from description", Date: "2024-02-02"},
		// Beyond the schedule, today backstops the date.
		{Title: "third", Body: "b", Date: "2024-05-01"},
	}
	if diff := cmp.Diff(want, got.Suggestions); diff != "" {
		t.Errorf("NormalizeResponse() suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeResponse_acceptsOffScheduleDates(t *testing.T) {
	got, err := NormalizeResponse(
		`{"workouts":[{"title":"W","body":"B","date":"1999-12-31"}]}`,
		[]string{"2024-01-01"}, normalizeNow)
	if err != nil {
		t.Fatalf("NormalizeResponse() error = %v", err)
	}
	if got.Suggestions[0].Date != "1999-12-31" {
		t.Errorf("NormalizeResponse() date = %s, model dates must pass through", got.Suggestions[0].Date)
	}
}

func TestNormalizeResponse_errors(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		_, err := NormalizeResponse("here is your program: ...", nil, normalizeNow)
		if !errors.Is(err, ErrUnparsableResponse) {
			t.Errorf("NormalizeResponse() error = %v, want ErrUnparsableResponse", err)
		}
	})

	t.Run("no recognizable workouts", func(t *testing.T) {
		_, err := NormalizeResponse(`{"note":"no workouts here"}`, nil, normalizeNow)
		if !errors.Is(err, ErrNoWorkouts) {
			t.Errorf("NormalizeResponse() error = %v, want ErrNoWorkouts", err)
		}
	})

	t.Run("title alone is not a single workout", func(t *testing.T) {
		_, err := NormalizeResponse(`{"title":"just a title"}`, nil, normalizeNow)
		if !errors.Is(err, ErrNoWorkouts) {
			t.Errorf("NormalizeResponse() error = %v, want ErrNoWorkouts", err)
		}
	})
}

func TestNormalizeResponse_directWorkoutsWinsOverArrayProperty(t *testing.T) {
	// "workouts" takes priority even when another array appears first in
	// the document.
	raw := `{"warmups":[{"title":"skip me","body":"x"}],"workouts":[{"title":"keep me","body":"y"}]}`
	got, err := NormalizeResponse(raw, nil, normalizeNow)
	if err != nil {
		t.Fatalf("NormalizeResponse() error = %v", err)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0].Title != "keep me" {
		t.Errorf("NormalizeResponse() = %+v, want the workouts property", got.Suggestions)
	}
}

func TestTopLevelKeys_documentOrder(t *testing.T) {
	raw := []byte(`{"zebra":1,"apple":{"nested":[1,2]},"mango":[1],"banana":"x"}`)
	want := []string{"zebra", "apple", "mango", "banana"}
	if diff := cmp.Diff(want, topLevelKeys(raw)); diff != "" {
		t.Errorf("topLevelKeys() mismatch (-want +got):\n%s", diff)
	}
}
