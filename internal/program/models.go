// Package program implements AI-assisted training program generation:
// parameter extraction, date scheduling, prompt construction, LLM invocation,
// response normalization, and persistence.
package program

import "time"

// Program is a training program owned by a coach.
type Program struct {
	ID          string         `json:"id"`
	UserID      string         `json:"-"`
	ClientID    string         `json:"client_id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Overview    string         `json:"overview"`
	Settings    map[string]any `json:"settings,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Workout is a single persisted workout belonging to a program.
type Workout struct {
	ID            string    `json:"id"`
	ProgramID     string    `json:"program_id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	ScheduledDate string    `json:"date,omitempty"`
	IsReference   bool      `json:"is_reference,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReferenceWorkout is an existing workout offered to the model as inspiration.
type ReferenceWorkout struct {
	Title string
	Body  string
}

// Client is a trainee the coach generates programs for.
type Client struct {
	ID        string        `json:"id"`
	UserID    string        `json:"-"`
	Name      string        `json:"name"`
	Metrics   ClientMetrics `json:"metrics"`
	CreatedAt time.Time     `json:"created_at"`
}

// ClientMetrics holds the measurements that personalize a generated program.
// Zero values mean the measurement is unknown and is omitted from prompts.
type ClientMetrics struct {
	Gender        string  `json:"gender,omitempty"`
	HeightCM      float64 `json:"height_cm,omitempty"`
	WeightKG      float64 `json:"weight_kg,omitempty"`
	Bench1RM      float64 `json:"bench_1rm,omitempty"`
	Squat1RM      float64 `json:"squat_1rm,omitempty"`
	Deadlift1RM   float64 `json:"deadlift_1rm,omitempty"`
	MileTime      string  `json:"mile_time,omitempty"`
	RecoveryScore float64 `json:"recovery_score,omitempty"`
	InjuryHistory string  `json:"injury_history,omitempty"`
}

// HasInjuryHistory reports whether the injury history is meaningful,
// i.e. not just whitespace.
func (m ClientMetrics) HasInjuryHistory() bool {
	for _, r := range m.InjuryHistory {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

// Suggestion is one workout proposed by the model after normalization.
type Suggestion struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Date  string `json:"date"`
}

// NormalizedProgram is the canonical result of a generation run.
type NormalizedProgram struct {
	Message     string       `json:"message"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Overview    string       `json:"overview"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Generation records one LLM generation run for auditability.
type Generation struct {
	ID         string    `json:"id"`
	ProgramID  string    `json:"program_id"`
	RawContent string    `json:"-"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
