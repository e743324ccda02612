package main

import (
	"bytes"
	"net/http"

	"github.com/halteresai/server/internal/contexthelpers"
	"github.com/halteresai/server/internal/program"
)

type workoutCreateRequest struct {
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	ScheduledDate string   `json:"date"`
	IsReference   bool     `json:"is_reference"`
	Tags          []string `json:"tags"`
}

func (app *application) workoutListGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	workouts, err := app.programs.ListWorkouts(r.Context(), userID, r.PathValue("programID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, workouts)
}

func (app *application) workoutCreatePOST(w http.ResponseWriter, r *http.Request) {
	var req workoutCreateRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		app.writeError(w, r, http.StatusBadRequest, "title is required")
		return
	}
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	workout, err := app.programs.AddWorkout(r.Context(), userID, r.PathValue("programID"), program.Workout{
		Title:         req.Title,
		Body:          req.Body,
		ScheduledDate: req.ScheduledDate,
		IsReference:   req.IsReference,
		Tags:          req.Tags,
	})
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, workout)
}

// workoutGET returns a single workout with its markdown body rendered to HTML.
func (app *application) workoutGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	workout, err := app.programs.GetWorkout(r.Context(), userID, r.PathValue("workoutID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	var rendered bytes.Buffer
	if err = app.markdown.Convert([]byte(workout.Body), &rendered); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, struct {
		program.Workout
		BodyHTML string `json:"body_html"`
	}{Workout: workout, BodyHTML: rendered.String()})
}

type referenceImportRequest struct {
	URL   string `json:"url"`
	Pages int    `json:"pages"`
}

// referenceImportPOST crawls a public workout archive and stores the results
// as reference workouts on the program.
func (app *application) referenceImportPOST(w http.ResponseWriter, r *http.Request) {
	var req referenceImportRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.URL == "" {
		app.writeError(w, r, http.StatusBadRequest, "url is required")
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	programID := r.PathValue("programID")

	// Check ownership before crawling anything.
	if _, err := app.programs.GetProgram(r.Context(), userID, programID); err != nil {
		app.handleError(w, r, err)
		return
	}

	references, err := app.importer.FetchReferenceWorkouts(r.Context(), req.URL, req.Pages)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	added, err := app.programs.AddReferenceWorkouts(r.Context(), userID, programID, references)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]int{"imported": added})
}
