package program_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/program"
	"github.com/halteresai/server/internal/sqlite"
	"github.com/halteresai/server/internal/testhelpers"
)

// stubGenerator returns a canned response and captures the prompts it saw.
type stubGenerator struct {
	response     string
	err          error
	systemPrompt string
	userPrompt   string
	calls        int
}

func (g *stubGenerator) GenerateText(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	g.calls++
	g.systemPrompt = systemPrompt
	g.userPrompt = userPrompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func newTestService(t *testing.T, generator program.TextGenerator) (*program.Service, *sqlite.Database) {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return program.NewService(db, logger, generator), db
}

func insertUser(t *testing.T, db *sqlite.Database) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ReadWrite.ExecContext(t.Context(),
		"INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)",
		id, id+"@example.com", "x")
	if err != nil {
		t.Fatalf("insert test user: %v", err)
	}
	return id
}

const cannedResponse = `{
	"title": "Strength Block",
	"description": "A 1-week program",
	"overview": "Linear progression",
	"workouts": [
		{"title": "Week 1, Day 1: Squats", "body": "## Warm-up\nRow 500m", "date": "2024-01-01"},
		{"title": "Week 1, Day 2: Presses", "body": "## Warm-up\nBike 1km"}
	]
}`

func TestService_Generate(t *testing.T) {
	generator := &stubGenerator{response: cannedResponse}
	svc, db := newTestService(t, generator)
	ctx := t.Context()
	userID := insertUser(t, db)

	client, err := svc.CreateClient(ctx, userID, "Alice", program.ClientMetrics{
		Squat1RM:      120,
		InjuryHistory: "right shoulder impingement",
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	prog, err := svc.CreateProgram(ctx, userID, client.ID, "My program", "", nil)
	if err != nil {
		t.Fatalf("create program: %v", err)
	}

	if _, err = svc.AddWorkout(ctx, userID, prog.ID, program.Workout{
		Title:       "Fran",
		Body:        "21-15-9 thrusters and pull-ups",
		IsReference: true,
	}); err != nil {
		t.Fatalf("add reference workout: %v", err)
	}

	raw := map[string]any{
		"goal":           "Strength",
		"duration_weeks": float64(1),
		"days_per_week":  float64(2),
		"calendar_data": map[string]any{
			"start_date":   "2024-01-01",
			"days_of_week": []any{float64(1), float64(3)},
		},
	}

	normalized, err := svc.Generate(ctx, userID, prog.ID, raw)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if normalized.Title != "Strength Block" {
		t.Errorf("normalized title = %q, want Strength Block", normalized.Title)
	}
	if len(normalized.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(normalized.Suggestions))
	}
	// The second workout came back without a date and falls back to the
	// schedule: Monday and Wednesday from 2024-01-01.
	if got, want := normalized.Suggestions[1].Date, "2024-01-03"; got != want {
		t.Errorf("suggestion date = %q, want %q", got, want)
	}

	// The prompt carries the client's context.
	for _, want := range []string{
		"Squat 1RM: 120 kg",
		"Injury History: right shoulder impingement",
		"Reference 1: Fran",
		"Workout 1: 2024-01-01 (Week 1, Day 1)",
	} {
		if !strings.Contains(generator.userPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(generator.systemPrompt, "expert strength and conditioning coach") {
		t.Error("system prompt missing coach framing")
	}

	// Generated workouts are persisted and tagged.
	workouts, err := svc.ListWorkouts(ctx, userID, prog.ID)
	if err != nil {
		t.Fatalf("list workouts: %v", err)
	}
	generated := 0
	for _, workout := range workouts {
		if len(workout.Tags) == 1 && workout.Tags[0] == "generated" {
			generated++
		}
	}
	if generated != 2 {
		t.Errorf("got %d generated workouts, want 2", generated)
	}

	// The program record reflects the generation outcome.
	updated, err := svc.GetProgram(ctx, userID, prog.ID)
	if err != nil {
		t.Fatalf("get program: %v", err)
	}
	if updated.Title != "Strength Block" || updated.Overview != "Linear progression" {
		t.Errorf("program not updated: %+v", updated)
	}
	if updated.Settings["goal"] != "Strength" {
		t.Errorf("program settings not stored: %+v", updated.Settings)
	}

	// A completed generation record holds the raw response.
	generations, err := svc.ListGenerations(ctx, userID, prog.ID)
	if err != nil {
		t.Fatalf("list generations: %v", err)
	}
	if len(generations) != 1 || generations[0].Status != "completed" {
		t.Fatalf("generations = %+v, want one completed record", generations)
	}
}

func TestService_Generate_unparsableResponse(t *testing.T) {
	generator := &stubGenerator{response: "Sure! Here is your program..."}
	svc, db := newTestService(t, generator)
	ctx := t.Context()
	userID := insertUser(t, db)

	prog, err := svc.CreateProgram(ctx, userID, "", "P", "", nil)
	if err != nil {
		t.Fatalf("create program: %v", err)
	}

	_, err = svc.Generate(ctx, userID, prog.ID, map[string]any{})
	if !errors.Is(err, program.ErrUnparsableResponse) {
		t.Fatalf("generate error = %v, want ErrUnparsableResponse", err)
	}

	// The failed run is still recorded for auditing.
	generations, err := svc.ListGenerations(ctx, userID, prog.ID)
	if err != nil {
		t.Fatalf("list generations: %v", err)
	}
	if len(generations) != 1 || generations[0].Status != "failed" {
		t.Fatalf("generations = %+v, want one failed record", generations)
	}

	// No workouts were persisted.
	workouts, err := svc.ListWorkouts(ctx, userID, prog.ID)
	if err != nil {
		t.Fatalf("list workouts: %v", err)
	}
	if len(workouts) != 0 {
		t.Errorf("got %d workouts, want none", len(workouts))
	}
}

func TestService_Generate_ownership(t *testing.T) {
	generator := &stubGenerator{response: cannedResponse}
	svc, db := newTestService(t, generator)
	ctx := t.Context()
	owner := insertUser(t, db)
	intruder := insertUser(t, db)

	prog, err := svc.CreateProgram(ctx, owner, "", "P", "", nil)
	if err != nil {
		t.Fatalf("create program: %v", err)
	}

	if _, err = svc.Generate(ctx, intruder, prog.ID, map[string]any{}); !errors.Is(err, program.ErrNotOwner) {
		t.Errorf("generate as intruder error = %v, want ErrNotOwner", err)
	}
	if generator.calls != 0 {
		t.Errorf("generator called %d times for denied request, want 0", generator.calls)
	}

	if _, err = svc.Generate(ctx, owner, uuid.NewString(), map[string]any{}); !errors.Is(err, program.ErrNotFound) {
		t.Errorf("generate for missing program error = %v, want ErrNotFound", err)
	}
}

func TestService_programCRUD(t *testing.T) {
	svc, db := newTestService(t, &stubGenerator{})
	ctx := t.Context()
	userID := insertUser(t, db)

	first, err := svc.CreateProgram(ctx, userID, "", "First", "desc", map[string]any{"goal": "Endurance"})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	if _, err = svc.CreateProgram(ctx, userID, "", "Second", "", nil); err != nil {
		t.Fatalf("create program: %v", err)
	}

	programs, err := svc.ListPrograms(ctx, userID)
	if err != nil {
		t.Fatalf("list programs: %v", err)
	}
	if len(programs) != 2 {
		t.Fatalf("got %d programs, want 2", len(programs))
	}

	if err = svc.DeleteProgram(ctx, userID, first.ID); err != nil {
		t.Fatalf("delete program: %v", err)
	}
	if _, err = svc.GetProgram(ctx, userID, first.ID); !errors.Is(err, program.ErrNotFound) {
		t.Errorf("get deleted program error = %v, want ErrNotFound", err)
	}
}

func TestService_clientMetricsRoundTrip(t *testing.T) {
	svc, db := newTestService(t, &stubGenerator{})
	ctx := t.Context()
	userID := insertUser(t, db)

	client, err := svc.CreateClient(ctx, userID, "Bob", program.ClientMetrics{HeightCM: 180})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	updated, err := svc.UpdateClientMetrics(ctx, userID, client.ID, program.ClientMetrics{
		Gender:   "male",
		HeightCM: 180,
		Bench1RM: 90,
	})
	if err != nil {
		t.Fatalf("update client metrics: %v", err)
	}
	if updated.Metrics.Bench1RM != 90 || updated.Metrics.Gender != "male" {
		t.Errorf("metrics not updated: %+v", updated.Metrics)
	}

	other := insertUser(t, db)
	if _, err = svc.GetClient(ctx, other, client.ID); !errors.Is(err, program.ErrNotOwner) {
		t.Errorf("get client as other user error = %v, want ErrNotOwner", err)
	}
}
