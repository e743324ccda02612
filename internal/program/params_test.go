package program

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestExtractParams_defaults(t *testing.T) {
	got := ExtractParams(map[string]any{})

	want := Params{
		Goal:          "General fitness",
		Difficulty:    "Intermediate",
		Weeks:         4,
		DaysPerWeek:   3,
		ProgramType:   "linear",
		TotalWorkouts: 12,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractParams() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractParams_aliases(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want func(p Params) bool
		desc string
	}{
		{
			name: "duration_weeks wins over numberOfWeeks",
			raw:  map[string]any{"duration_weeks": float64(6), "numberOfWeeks": float64(8)},
			want: func(p Params) bool { return p.Weeks == 6 },
			desc: "Weeks == 6",
		},
		{
			name: "numberOfWeeks fallback",
			raw:  map[string]any{"numberOfWeeks": float64(8)},
			want: func(p Params) bool { return p.Weeks == 8 },
			desc: "Weeks == 8",
		},
		{
			name: "string number tolerated",
			raw:  map[string]any{"days_per_week": "5"},
			want: func(p Params) bool { return p.DaysPerWeek == 5 },
			desc: "DaysPerWeek == 5",
		},
		{
			name: "non-numeric falls back to default",
			raw:  map[string]any{"duration_weeks": "soon"},
			want: func(p Params) bool { return p.Weeks == 4 },
			desc: "Weeks == 4",
		},
		{
			name: "nested program type",
			raw:  map[string]any{"periodization": map[string]any{"program_type": "block"}},
			want: func(p Params) bool { return p.ProgramType == "block" },
			desc: "ProgramType == block",
		},
		{
			name: "flat program type fallback",
			raw:  map[string]any{"programType": "undulating"},
			want: func(p Params) bool { return p.ProgramType == "undulating" },
			desc: "ProgramType == undulating",
		},
		{
			name: "gym details",
			raw: map[string]any{"gym_details": map[string]any{
				"equipment": []any{"barbell", "rower"},
				"gym_type":  "garage",
			}},
			want: func(p Params) bool {
				return len(p.Equipment) == 2 && p.Equipment[0] == "barbell" && p.GymType == "garage"
			},
			desc: "Equipment and GymType from gym_details",
		},
		{
			name: "calendar data",
			raw: map[string]any{"calendar_data": map[string]any{
				"start_date":   "2024-01-01",
				"days_of_week": []any{float64(1), float64(3)},
			}},
			want: func(p Params) bool {
				return p.StartDate == "2024-01-01" &&
					len(p.SelectedWeekdays) == 2 &&
					p.SelectedWeekdays[0] == time.Monday &&
					p.SelectedWeekdays[1] == time.Wednesday
			},
			desc: "StartDate and SelectedWeekdays from calendar_data",
		},
		{
			name: "out of range weekday dropped",
			raw: map[string]any{"calendar_data": map[string]any{
				"days_of_week": []any{float64(1), float64(9)},
			}},
			want: func(p Params) bool { return len(p.SelectedWeekdays) == 1 },
			desc: "one weekday",
		},
		{
			name: "description becomes additional notes",
			raw:  map[string]any{"description": "no burpees"},
			want: func(p Params) bool { return p.AdditionalNotes == "no burpees" },
			desc: "AdditionalNotes == no burpees",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractParams(tt.raw)
			if !tt.want(got) {
				t.Errorf("ExtractParams(%v): want %s, got %+v", tt.raw, tt.desc, got)
			}
		})
	}
}

func TestExtractParams_totalWorkouts(t *testing.T) {
	got := ExtractParams(map[string]any{
		"duration_weeks": float64(6),
		"days_per_week":  float64(4),
	})
	if got.TotalWorkouts != 24 {
		t.Errorf("TotalWorkouts = %d, want 24", got.TotalWorkouts)
	}
}
