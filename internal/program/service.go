package program

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/sqlite"
)

// ErrNotOwner is returned when a user acts on a record they do not own.
var ErrNotOwner = errors.NewSentinel("not the owner")

const (
	generationStatusCompleted = "completed"
	generationStatusFailed    = "failed"

	generatedTag = "generated"
)

// Service handles the business logic for program management and generation.
type Service struct {
	repo      *repository
	generator TextGenerator
	logger    *slog.Logger
}

// NewService creates a new program service.
func NewService(db *sqlite.Database, logger *slog.Logger, generator TextGenerator) *Service {
	return &Service{
		repo:      newRepository(db),
		generator: generator,
		logger:    logger,
	}
}

// Generate runs the full generation pipeline for a program: resolve
// parameters, schedule dates, build the prompt, invoke the model, normalize
// the response, and persist the outcome.
//
// Persistence of the generated workouts is per-row and non-transactional:
// a failed insert is logged and the batch continues. Concurrent generations
// for the same program are not serialized; each run persists its own rows.
func (s *Service) Generate(
	ctx context.Context, userID, programID string, raw map[string]any,
) (NormalizedProgram, error) {
	prog, err := s.authorizedProgram(ctx, userID, programID)
	if err != nil {
		return NormalizedProgram{}, err
	}

	params := ExtractParams(raw)

	metrics, err := s.clientMetrics(ctx, prog)
	if err != nil {
		return NormalizedProgram{}, err
	}

	references, err := s.repo.workouts.listReferences(ctx, programID)
	if err != nil {
		return NormalizedProgram{}, fmt.Errorf("list reference workouts: %w", err)
	}

	now := time.Now()
	start := now
	if parsed, parseErr := time.Parse(time.DateOnly, params.StartDate); parseErr == nil {
		start = parsed
	}

	dates, err := ScheduleDates(params.SelectedWeekdays, params.TotalWorkouts, start)
	if err != nil {
		return NormalizedProgram{}, fmt.Errorf("schedule dates: %w", err)
	}

	prompt := buildPrompt(params,
		formatClientMetrics(metrics),
		formatReferenceWorkouts(references),
		dates,
		metrics.HasInjuryHistory())

	rawResponse, err := s.generator.GenerateText(ctx, systemPrompt, prompt)
	if err != nil {
		return NormalizedProgram{}, fmt.Errorf("generate text: %w", err)
	}

	normalized, err := NormalizeResponse(rawResponse, dates, now)
	if err != nil {
		s.recordGeneration(ctx, programID, rawResponse, generationStatusFailed)
		return NormalizedProgram{}, fmt.Errorf("normalize response: %w", err)
	}

	s.persistSuggestions(ctx, programID, normalized.Suggestions)
	s.recordGeneration(ctx, programID, rawResponse, generationStatusCompleted)

	if err = s.repo.programs.updateGenerated(ctx, programID,
		normalized.Title, normalized.Description, normalized.Overview, raw); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to update program after generation",
			slog.String("program_id", programID), errors.SlogError(err))
	}

	return normalized, nil
}

// persistSuggestions inserts one workout row per suggestion, tagged as
// generated. Failures are logged and do not abort the batch.
func (s *Service) persistSuggestions(ctx context.Context, programID string, suggestions []Suggestion) {
	for _, suggestion := range suggestions {
		workout := Workout{
			ID:            uuid.NewString(),
			ProgramID:     programID,
			Title:         suggestion.Title,
			Body:          suggestion.Body,
			ScheduledDate: suggestion.Date,
			Tags:          []string{generatedTag},
		}
		if err := s.repo.workouts.create(ctx, workout); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "failed to persist generated workout",
				slog.String("program_id", programID),
				slog.String("title", suggestion.Title),
				errors.SlogError(err))
		}
	}
}

func (s *Service) recordGeneration(ctx context.Context, programID, rawContent, status string) {
	generation := Generation{
		ID:         uuid.NewString(),
		ProgramID:  programID,
		RawContent: rawContent,
		Status:     status,
	}
	if err := s.repo.generations.create(ctx, generation); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to record generation",
			slog.String("program_id", programID), errors.SlogError(err))
	}
}

// clientMetrics loads the metrics of the program's client. A program without
// a client, or whose client has been deleted, generates with empty metrics.
func (s *Service) clientMetrics(ctx context.Context, prog Program) (ClientMetrics, error) {
	if prog.ClientID == "" {
		return ClientMetrics{}, nil
	}
	client, err := s.repo.clients.get(ctx, prog.ClientID)
	if errors.Is(err, ErrNotFound) {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "program references missing client",
			slog.String("program_id", prog.ID), slog.String("client_id", prog.ClientID))
		return ClientMetrics{}, nil
	}
	if err != nil {
		return ClientMetrics{}, fmt.Errorf("get client: %w", err)
	}
	return client.Metrics, nil
}

func (s *Service) authorizedProgram(ctx context.Context, userID, programID string) (Program, error) {
	prog, err := s.repo.programs.get(ctx, programID)
	if err != nil {
		return Program{}, err
	}
	if prog.UserID != userID {
		return Program{}, fmt.Errorf("program %s: %w", programID, ErrNotOwner)
	}
	return prog, nil
}

// CreateProgram creates an empty program owned by userID.
func (s *Service) CreateProgram(
	ctx context.Context, userID, clientID, title, description string, settings map[string]any,
) (Program, error) {
	if clientID != "" {
		client, err := s.repo.clients.get(ctx, clientID)
		if err != nil {
			return Program{}, err
		}
		if client.UserID != userID {
			return Program{}, fmt.Errorf("client %s: %w", clientID, ErrNotOwner)
		}
	}
	prog := Program{
		ID:          uuid.NewString(),
		UserID:      userID,
		ClientID:    clientID,
		Title:       title,
		Description: description,
		Settings:    settings,
	}
	if err := s.repo.programs.create(ctx, prog); err != nil {
		return Program{}, fmt.Errorf("create program: %w", err)
	}
	return s.repo.programs.get(ctx, prog.ID)
}

// ListPrograms returns the programs owned by userID, newest first.
func (s *Service) ListPrograms(ctx context.Context, userID string) ([]Program, error) {
	return s.repo.programs.list(ctx, userID)
}

// GetProgram returns a program after checking ownership.
func (s *Service) GetProgram(ctx context.Context, userID, programID string) (Program, error) {
	return s.authorizedProgram(ctx, userID, programID)
}

// DeleteProgram removes a program and, through cascading deletes, its
// workouts and generation records.
func (s *Service) DeleteProgram(ctx context.Context, userID, programID string) error {
	if _, err := s.authorizedProgram(ctx, userID, programID); err != nil {
		return err
	}
	return s.repo.programs.delete(ctx, programID)
}

// ListWorkouts returns the workouts of a program after checking ownership.
func (s *Service) ListWorkouts(ctx context.Context, userID, programID string) ([]Workout, error) {
	if _, err := s.authorizedProgram(ctx, userID, programID); err != nil {
		return nil, err
	}
	return s.repo.workouts.list(ctx, programID)
}

// GetWorkout returns a single workout after checking ownership of its program.
func (s *Service) GetWorkout(ctx context.Context, userID, workoutID string) (Workout, error) {
	workout, err := s.repo.workouts.get(ctx, workoutID)
	if err != nil {
		return Workout{}, err
	}
	if _, err = s.authorizedProgram(ctx, userID, workout.ProgramID); err != nil {
		return Workout{}, err
	}
	return workout, nil
}

// AddWorkout adds a manually authored or reference workout to a program.
func (s *Service) AddWorkout(
	ctx context.Context, userID, programID string, workout Workout,
) (Workout, error) {
	if _, err := s.authorizedProgram(ctx, userID, programID); err != nil {
		return Workout{}, err
	}
	workout.ID = uuid.NewString()
	workout.ProgramID = programID
	if err := s.repo.workouts.create(ctx, workout); err != nil {
		return Workout{}, fmt.Errorf("add workout: %w", err)
	}
	return s.repo.workouts.get(ctx, workout.ID)
}

// AddReferenceWorkouts stores imported reference workouts on a program and
// returns how many were added.
func (s *Service) AddReferenceWorkouts(
	ctx context.Context, userID, programID string, references []ReferenceWorkout,
) (int, error) {
	if _, err := s.authorizedProgram(ctx, userID, programID); err != nil {
		return 0, err
	}
	added := 0
	for _, reference := range references {
		workout := Workout{
			ID:          uuid.NewString(),
			ProgramID:   programID,
			Title:       reference.Title,
			Body:        reference.Body,
			IsReference: true,
		}
		if err := s.repo.workouts.create(ctx, workout); err != nil {
			return added, fmt.Errorf("add reference workout: %w", err)
		}
		added++
	}
	return added, nil
}

// CreateClient registers a new client for the coach.
func (s *Service) CreateClient(ctx context.Context, userID, name string, metrics ClientMetrics) (Client, error) {
	client := Client{
		ID:      uuid.NewString(),
		UserID:  userID,
		Name:    name,
		Metrics: metrics,
	}
	if err := s.repo.clients.create(ctx, client); err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}
	return s.repo.clients.get(ctx, client.ID)
}

// ListClients returns the coach's clients ordered by name.
func (s *Service) ListClients(ctx context.Context, userID string) ([]Client, error) {
	return s.repo.clients.list(ctx, userID)
}

// GetClient returns a client after checking ownership.
func (s *Service) GetClient(ctx context.Context, userID, clientID string) (Client, error) {
	client, err := s.repo.clients.get(ctx, clientID)
	if err != nil {
		return Client{}, err
	}
	if client.UserID != userID {
		return Client{}, fmt.Errorf("client %s: %w", clientID, ErrNotOwner)
	}
	return client, nil
}

// UpdateClientMetrics replaces a client's metrics.
func (s *Service) UpdateClientMetrics(
	ctx context.Context, userID, clientID string, metrics ClientMetrics,
) (Client, error) {
	if _, err := s.GetClient(ctx, userID, clientID); err != nil {
		return Client{}, err
	}
	if err := s.repo.clients.updateMetrics(ctx, clientID, metrics); err != nil {
		return Client{}, err
	}
	return s.repo.clients.get(ctx, clientID)
}

// ListGenerations returns the generation audit records of a program.
func (s *Service) ListGenerations(ctx context.Context, userID, programID string) ([]Generation, error) {
	if _, err := s.authorizedProgram(ctx, userID, programID); err != nil {
		return nil, err
	}
	return s.repo.generations.list(ctx, programID)
}
