package store

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/arieyuval/plates-go/internal/telemetry/tracing"
	"github.com/arieyuval/plates-go/internal/workout"
	"github.com/arieyuval/plates-go/internal/workout/remote"
	"github.com/arieyuval/plates-go/pkg"
)

// workoutStore is what the HTTP surface needs from the cache
// (for dependency injection and testing).
type workoutStore interface {
	RefreshIfStale(ctx context.Context)
	FetchAll(ctx context.Context, force bool)
	Exercises() []workout.Exercise
	Exercise(exerciseID string) *workout.Exercise
	Sets(exerciseID string) []workout.Set
	PersonalRecords(exerciseID string) []workout.PersonalRecord
	CurrentPR(exerciseID string, repTarget int) *workout.PersonalRecord
	LastSession(exerciseID string) *workout.Set
	LastSet(exerciseID string) *workout.Set
	BestDistance(exerciseID string) *float64
	ChartData(exerciseID string, repFilter int) []workout.ChartPoint
	BodyWeightChartData() []workout.ChartPoint
	BodyWeightExerciseChartData(exerciseID string) []workout.ChartPoint
	WorkoutLabelForDay(day time.Time) string
	ErrorMessage() string
	LogSet(ctx context.Context, params remote.LogSetParams) error
	UpdateSet(ctx context.Context, setID, exerciseID string, params remote.UpdateSetParams) error
	DeleteSet(ctx context.Context, setID, exerciseID string) error
	AddExercise(ctx context.Context, params remote.AddExerciseParams) (*workout.Exercise, error)
	UpdatePinnedNote(ctx context.Context, exerciseID string, note *string) error
	UpdateUserPRReps(ctx context.Context, exerciseID string, reps *int) error
	LogBodyWeight(ctx context.Context, weight float64, createdAt time.Time) error
}

var _ workoutStore = (*Store)(nil)

type ListExercisesResponse struct {
	Exercises []workout.Exercise `json:"exercises"`
	Error     string             `json:"error,omitempty"`
}

type ListSetsResponse struct {
	Sets  []workout.Set `json:"sets"`
	Error string        `json:"error,omitempty"`
}

type ExerciseStatsResponse struct {
	Records      []workout.PersonalRecord `json:"records"`
	LastSession  *workout.Set             `json:"lastSession,omitempty"`
	LastSet      *workout.Set             `json:"lastSet,omitempty"`
	BestDistance *float64                 `json:"bestDistance,omitempty"`
}

type WorkoutLabelResponse struct {
	Day   string `json:"day"`
	Label string `json:"label"`
}

type DeleteSetResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	store workoutStore
}

func NewHandler(store workoutStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workout/exercises", h.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/workout/exercises", h.HandleAddExercise).Methods("POST", "OPTIONS").Name("add-exercise")
	r.HandleFunc("/workout/exercise/{id}/sets", h.HandleListSets).Methods("GET", "OPTIONS").Name("list-sets")
	r.HandleFunc("/workout/exercise/{id}/stats", h.HandleExerciseStats).Methods("GET", "OPTIONS").Name("exercise-stats")
	r.HandleFunc("/workout/exercise/{id}/chart", h.HandleChart).Methods("GET", "OPTIONS").Name("exercise-chart")
	r.HandleFunc("/workout/exercise/{id}/pinned-note", h.HandleUpdatePinnedNote).Methods("PUT", "OPTIONS").Name("pinned-note")
	r.HandleFunc("/workout/exercise/{id}/pr-reps", h.HandleUpdateUserPRReps).Methods("PUT", "OPTIONS").Name("pr-reps")
	r.HandleFunc("/workout/sets", h.HandleLogSet).Methods("POST", "OPTIONS").Name("log-set")
	r.HandleFunc("/workout/sets/{id}", h.HandleUpdateSet).Methods("PUT", "OPTIONS").Name("update-set")
	r.HandleFunc("/workout/sets/{id}", h.HandleDeleteSet).Methods("DELETE", "OPTIONS").Name("delete-set")
	r.HandleFunc("/workout/label", h.HandleWorkoutLabel).Methods("GET", "OPTIONS").Name("workout-label")
	r.HandleFunc("/workout/bodyweight", h.HandleLogBodyWeight).Methods("POST", "OPTIONS").Name("log-body-weight")
	r.HandleFunc("/workout/bodyweight/chart", h.HandleBodyWeightChart).Methods("GET", "OPTIONS").Name("body-weight-chart")
	r.HandleFunc("/workout/refresh", h.HandleForceRefresh).Methods("POST", "OPTIONS").Name("force-refresh")
}

func (h *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.listExercises")
	defer span.End()

	h.store.RefreshIfStale(ctx)

	resp := ListExercisesResponse{
		Exercises: h.store.Exercises(),
		Error:     h.store.ErrorMessage(),
	}
	writeJSON(w, resp, http.StatusOK)
}

func (h *Handler) HandleListSets(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.listSets")
	defer span.End()

	h.store.RefreshIfStale(ctx)

	exerciseID := mux.Vars(r)["id"]
	resp := ListSetsResponse{
		Sets:  h.store.Sets(exerciseID),
		Error: h.store.ErrorMessage(),
	}
	writeJSON(w, resp, http.StatusOK)
}

func (h *Handler) HandleExerciseStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.exerciseStats")
	defer span.End()

	h.store.RefreshIfStale(ctx)

	exerciseID := mux.Vars(r)["id"]
	resp := ExerciseStatsResponse{
		Records:      h.store.PersonalRecords(exerciseID),
		LastSession:  h.store.LastSession(exerciseID),
		LastSet:      h.store.LastSet(exerciseID),
		BestDistance: h.store.BestDistance(exerciseID),
	}

	// user-chosen rep target, outside the fixed menu
	if repsParam := r.URL.Query().Get("reps"); repsParam != "" {
		reps, err := strconv.Atoi(repsParam)
		if err != nil {
			http.Error(w, "invalid reps parameter", http.StatusBadRequest)
			return
		}
		if pr := h.store.CurrentPR(exerciseID, reps); pr != nil {
			resp.Records = append(resp.Records, *pr)
		}
	}

	writeJSON(w, resp, http.StatusOK)
}

func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.chart")
	defer span.End()

	h.store.RefreshIfStale(ctx)

	exerciseID := mux.Vars(r)["id"]

	if r.URL.Query().Get("bodyweight") == "true" {
		writeJSON(w, h.store.BodyWeightExerciseChartData(exerciseID), http.StatusOK)
		return
	}

	repFilter := 0
	if repsParam := r.URL.Query().Get("minReps"); repsParam != "" {
		reps, err := strconv.Atoi(repsParam)
		if err != nil {
			http.Error(w, "invalid minReps parameter", http.StatusBadRequest)
			return
		}
		repFilter = reps
	}
	writeJSON(w, h.store.ChartData(exerciseID, repFilter), http.StatusOK)
}

func (h *Handler) HandleBodyWeightChart(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.bodyWeightChart")
	defer span.End()

	writeJSON(w, h.store.BodyWeightChartData(), http.StatusOK)
}

func (h *Handler) HandleWorkoutLabel(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.label")
	defer span.End()

	h.store.RefreshIfStale(ctx)

	day := time.Now()
	if dayParam := r.URL.Query().Get("day"); dayParam != "" {
		parsed, err := time.Parse("2006-01-02", dayParam)
		if err != nil {
			http.Error(w, "invalid day parameter, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	resp := WorkoutLabelResponse{
		Day:   day.Format("2006-01-02"),
		Label: h.store.WorkoutLabelForDay(day),
	}
	writeJSON(w, resp, http.StatusOK)
}

func (h *Handler) HandleLogSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.logSet")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params remote.LogSetParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("log set, unmarshal json params: %s", err)
		http.Error(w, "log set failed", http.StatusBadRequest)
		return
	}
	if params.ExerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}
	if params.CreatedAt.IsZero() {
		params.CreatedAt = time.Now()
	}

	if err := h.store.LogSet(ctx, params); err != nil {
		log.Errorf("failed to log set for exercise [%s]: %s", params.ExerciseID, err)
		http.Error(w, "error, failed to log set", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponse(w, pkg.ContentType.Text, "added", http.StatusCreated)
}

func (h *Handler) HandleUpdateSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.updateSet")
	defer span.End()

	setID := mux.Vars(r)["id"]
	exerciseID := r.URL.Query().Get("exerciseId")
	if exerciseID == "" {
		http.Error(w, "error, exerciseId query param empty", http.StatusBadRequest)
		return
	}

	var params remote.UpdateSetParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("update set, unmarshal json params: %s", err)
		http.Error(w, "update set failed", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateSet(ctx, setID, exerciseID, params); err != nil {
		log.Errorf("failed to update set [%s]: %s", setID, err)
		http.Error(w, "error, failed to update set", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponse(w, pkg.ContentType.Text, "updated", http.StatusOK)
}

func (h *Handler) HandleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.deleteSet")
	defer span.End()

	setID := mux.Vars(r)["id"]
	exerciseID := r.URL.Query().Get("exerciseId")
	if exerciseID == "" {
		http.Error(w, "error, exerciseId query param empty", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteSet(ctx, setID, exerciseID); err != nil {
		log.Errorf("failed to delete set [%s]: %s", setID, err)
		http.Error(w, "error, failed to delete set", http.StatusInternalServerError)
		return
	}

	writeJSON(w, DeleteSetResponse{DeletedID: setID}, http.StatusOK)
}

func (h *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.addExercise")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params remote.AddExerciseParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("add exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}
	if params.Name == "" || params.MuscleGroup == "" {
		http.Error(w, "error, exercise name or muscle group empty", http.StatusBadRequest)
		return
	}

	exercise, err := h.store.AddExercise(ctx, params)
	if err != nil {
		log.Errorf("failed to add exercise [%s]: %s", params.Name, err)
		http.Error(w, "error, failed to add exercise", http.StatusInternalServerError)
		return
	}

	writeJSON(w, exercise, http.StatusCreated)
}

func (h *Handler) HandleUpdatePinnedNote(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.updatePinnedNote")
	defer span.End()

	exerciseID := mux.Vars(r)["id"]

	var body struct {
		PinnedNote *string `json:"pinnedNote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "update pinned note failed", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdatePinnedNote(ctx, exerciseID, body.PinnedNote); err != nil {
		log.Errorf("failed to update pinned note for exercise [%s]: %s", exerciseID, err)
		http.Error(w, "error, failed to update pinned note", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponse(w, pkg.ContentType.Text, "updated", http.StatusOK)
}

func (h *Handler) HandleUpdateUserPRReps(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.updateUserPRReps")
	defer span.End()

	exerciseID := mux.Vars(r)["id"]

	var body struct {
		Reps *int `json:"reps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "update PR reps failed", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateUserPRReps(ctx, exerciseID, body.Reps); err != nil {
		log.Errorf("failed to update PR reps for exercise [%s]: %s", exerciseID, err)
		http.Error(w, "error, failed to update PR reps", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponse(w, pkg.ContentType.Text, "updated", http.StatusOK)
}

func (h *Handler) HandleLogBodyWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.logBodyWeight")
	defer span.End()

	var body struct {
		Weight    float64   `json:"weight"`
		CreatedAt time.Time `json:"createdAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "log body weight failed", http.StatusBadRequest)
		return
	}
	if body.CreatedAt.IsZero() {
		body.CreatedAt = time.Now()
	}

	if err := h.store.LogBodyWeight(ctx, body.Weight, body.CreatedAt); err != nil {
		log.Errorf("failed to log body weight: %s", err)
		http.Error(w, "error, failed to log body weight", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponse(w, pkg.ContentType.Text, "added", http.StatusCreated)
}

func (h *Handler) HandleForceRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workout.forceRefresh")
	defer span.End()

	h.store.FetchAll(ctx, true)

	if errMsg := h.store.ErrorMessage(); errMsg != "" {
		http.Error(w, errMsg, http.StatusBadGateway)
		return
	}
	pkg.WriteResponse(w, pkg.ContentType.Text, "refreshed", http.StatusOK)
}

func writeJSON(w http.ResponseWriter, payload interface{}, statusCode int) {
	respBytes, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, statusCode)
}
