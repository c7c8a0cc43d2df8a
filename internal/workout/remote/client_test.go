package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arieyuval/plates-go/internal/workout"
	"github.com/arieyuval/plates-go/internal/workout/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchExercises(t *testing.T) {
	exercises := []workout.Exercise{
		{
			ID:            "bench",
			Name:          "Bench Press",
			MuscleGroups:  []workout.MuscleGroup{workout.MuscleGroupChest},
			Type:          workout.ExerciseTypeStrength,
			DefaultPRReps: 5,
		},
	}

	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/exercises", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewEncoder(w).Encode(exercises))
	}))
	defer testServer.Close()

	client := remote.NewClient(testServer.URL, "test-token", testServer.Client())
	got, err := client.FetchExercises(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bench", got[0].ID)
	assert.Equal(t, workout.MuscleGroupChest, got[0].PrimaryMuscleGroup())
}

func TestClient_FetchSets(t *testing.T) {
	createdAt := time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC)
	weight := 100.0
	reps := 5
	sets := []workout.Set{
		{ID: "b1", ExerciseID: "bench", CreatedAt: createdAt, Weight: &weight, Reps: &reps},
	}

	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sets", r.URL.Path)
		assert.Equal(t, "bench", r.URL.Query().Get("exerciseId"))
		require.NoError(t, json.NewEncoder(w).Encode(sets))
	}))
	defer testServer.Close()

	client := remote.NewClient(testServer.URL, "test-token", testServer.Client())
	got, err := client.FetchSets(context.Background(), "bench")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsStrength())
	assert.Equal(t, 100.0, got[0].WeightOrZero())
}

func TestClient_LogSet(t *testing.T) {
	weight := 102.5
	reps := 3

	var received remote.LogSetParams
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sets", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer testServer.Close()

	client := remote.NewClient(testServer.URL, "test-token", testServer.Client())
	err := client.LogSet(context.Background(), remote.LogSetParams{
		ExerciseID: "bench",
		Weight:     &weight,
		Reps:       &reps,
		CreatedAt:  time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "bench", received.ExerciseID)
	require.NotNil(t, received.Weight)
	assert.Equal(t, 102.5, *received.Weight)
}

func TestClient_AddExercise(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/exercises", r.URL.Path)

		var params remote.AddExerciseParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))

		require.NoError(t, json.NewEncoder(w).Encode(workout.Exercise{
			ID:            "deadlift",
			Name:          params.Name,
			MuscleGroups:  []workout.MuscleGroup{params.MuscleGroup},
			Type:          params.Type,
			DefaultPRReps: params.DefaultPRReps,
		}))
	}))
	defer testServer.Close()

	client := remote.NewClient(testServer.URL, "test-token", testServer.Client())
	exercise, err := client.AddExercise(context.Background(), remote.AddExerciseParams{
		Name:          "Deadlift",
		MuscleGroup:   workout.MuscleGroupBack,
		Type:          workout.ExerciseTypeStrength,
		DefaultPRReps: 5,
	})
	require.NoError(t, err)
	require.NotNil(t, exercise)
	assert.Equal(t, "deadlift", exercise.ID)
	assert.Equal(t, workout.MuscleGroupBack, exercise.PrimaryMuscleGroup())
}

func TestClient_UpdatePinnedNote(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/exercises/bench/pinned-note", r.URL.Path)

		var body struct {
			PinnedNote *string `json:"pinnedNote"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.PinnedNote)
		assert.Equal(t, "elbows in", *body.PinnedNote)
	}))
	defer testServer.Close()

	note := "elbows in"
	client := remote.NewClient(testServer.URL, "test-token", testServer.Client())
	require.NoError(t, client.UpdatePinnedNote(context.Background(), "bench", &note))
}

func TestClient_NotFound(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer testServer.Close()

	client := remote.NewClient(testServer.URL, "test-token", testServer.Client())
	err := client.DeleteSet(context.Background(), "nope")
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestClient_RemoteFailure(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ouch", http.StatusInternalServerError)
	}))
	defer testServer.Close()

	client := remote.NewClient(testServer.URL, "test-token", testServer.Client())
	_, err := client.FetchExercises(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
