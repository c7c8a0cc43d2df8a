package store_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arieyuval/plates-go/internal/workout"
	"github.com/arieyuval/plates-go/internal/workout/remote"
)

// remoteMock is a hand-written in-memory stand-in for the remote data
// service. It applies mutations to its own state the way the backend
// would, so refresh calls observe the post-mutation data.
type remoteMock struct {
	mu sync.Mutex

	exercises      []workout.Exercise
	setsByExercise map[string][]workout.Set
	bodyWeightLogs []workout.BodyWeightLog

	fetchErr  error // returned by all fetch methods when set
	mutateErr error // returned by all mutation methods when set

	fetchExercisesCalls int
	fetchAllSetsCalls   int
	fetchSetsCalls      []string
	logSetCalls         int
	updateSetCalls      int
	deleteSetCalls      int
	addExerciseCalls    int
	pinnedNoteCalls     int
	prRepsCalls         int
	bodyWeightFetches   int
	bodyWeightLogCalls  int

	nextSetID int

	// when non-nil, FetchExercises signals fetchStarted once and then
	// blocks until fetchRelease is closed
	fetchStarted chan struct{}
	fetchRelease chan struct{}
}

func newRemoteMock() *remoteMock {
	return &remoteMock{
		setsByExercise: make(map[string][]workout.Set),
	}
}

func (m *remoteMock) FetchExercises(_ context.Context) ([]workout.Exercise, error) {
	m.mu.Lock()
	m.fetchExercisesCalls++
	started, release := m.fetchStarted, m.fetchRelease
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	exercises := make([]workout.Exercise, len(m.exercises))
	copy(exercises, m.exercises)
	return exercises, nil
}

func (m *remoteMock) FetchAllSets(_ context.Context) ([]workout.Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchAllSetsCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var all []workout.Set
	for _, sets := range m.setsByExercise {
		all = append(all, sets...)
	}
	return all, nil
}

func (m *remoteMock) FetchSets(_ context.Context, exerciseID string) ([]workout.Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchSetsCalls = append(m.fetchSetsCalls, exerciseID)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	sets := make([]workout.Set, len(m.setsByExercise[exerciseID]))
	copy(sets, m.setsByExercise[exerciseID])
	return sets, nil
}

func (m *remoteMock) LogSet(_ context.Context, params remote.LogSetParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logSetCalls++
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.nextSetID++
	m.setsByExercise[params.ExerciseID] = append(m.setsByExercise[params.ExerciseID], workout.Set{
		ID:         fmt.Sprintf("set-%d", m.nextSetID),
		ExerciseID: params.ExerciseID,
		UserID:     "user1",
		CreatedAt:  params.CreatedAt,
		Weight:     params.Weight,
		Reps:       params.Reps,
		Distance:   params.Distance,
		Duration:   params.Duration,
		Notes:      params.Notes,
	})
	return nil
}

func (m *remoteMock) UpdateSet(_ context.Context, setID string, params remote.UpdateSetParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateSetCalls++
	if m.mutateErr != nil {
		return m.mutateErr
	}
	for exerciseID, sets := range m.setsByExercise {
		for i := range sets {
			if sets[i].ID != setID {
				continue
			}
			sets[i].Weight = params.Weight
			sets[i].Reps = params.Reps
			sets[i].Distance = params.Distance
			sets[i].Duration = params.Duration
			sets[i].Notes = params.Notes
			m.setsByExercise[exerciseID] = sets
			return nil
		}
	}
	return remote.ErrNotFound
}

func (m *remoteMock) DeleteSet(_ context.Context, setID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteSetCalls++
	if m.mutateErr != nil {
		return m.mutateErr
	}
	for exerciseID, sets := range m.setsByExercise {
		for i := range sets {
			if sets[i].ID == setID {
				m.setsByExercise[exerciseID] = append(sets[:i], sets[i+1:]...)
				return nil
			}
		}
	}
	return remote.ErrNotFound
}

func (m *remoteMock) AddExercise(_ context.Context, params remote.AddExerciseParams) (*workout.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addExerciseCalls++
	if m.mutateErr != nil {
		return nil, m.mutateErr
	}
	// idempotent on name + muscle group, like the real backend
	for _, e := range m.exercises {
		if e.Name == params.Name && e.PrimaryMuscleGroup() == params.MuscleGroup {
			existing := e
			return &existing, nil
		}
	}
	exercise := workout.Exercise{
		ID:             fmt.Sprintf("ex-%d", len(m.exercises)+1),
		Name:           params.Name,
		MuscleGroups:   []workout.MuscleGroup{params.MuscleGroup},
		Type:           params.Type,
		DefaultPRReps:  params.DefaultPRReps,
		UsesBodyWeight: params.UsesBodyWeight,
	}
	m.exercises = append(m.exercises, exercise)
	return &exercise, nil
}

func (m *remoteMock) UpdatePinnedNote(_ context.Context, exerciseID string, note *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pinnedNoteCalls++
	if m.mutateErr != nil {
		return m.mutateErr
	}
	for i := range m.exercises {
		if m.exercises[i].ID == exerciseID {
			m.exercises[i].PinnedNote = note
			return nil
		}
	}
	return remote.ErrNotFound
}

func (m *remoteMock) UpdateUserPRReps(_ context.Context, exerciseID string, reps *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prRepsCalls++
	if m.mutateErr != nil {
		return m.mutateErr
	}
	for i := range m.exercises {
		if m.exercises[i].ID == exerciseID {
			m.exercises[i].UserPRReps = reps
			return nil
		}
	}
	return remote.ErrNotFound
}

func (m *remoteMock) FetchBodyWeightLogs(_ context.Context) ([]workout.BodyWeightLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodyWeightFetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	logs := make([]workout.BodyWeightLog, len(m.bodyWeightLogs))
	copy(logs, m.bodyWeightLogs)
	return logs, nil
}

func (m *remoteMock) LogBodyWeight(_ context.Context, weight float64, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodyWeightLogCalls++
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.bodyWeightLogs = append(m.bodyWeightLogs, workout.BodyWeightLog{
		ID:        fmt.Sprintf("bw-%d", len(m.bodyWeightLogs)+1),
		UserID:    "user1",
		Weight:    weight,
		CreatedAt: createdAt,
	})
	return nil
}

func (m *remoteMock) setFetchErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
}

func (m *remoteMock) setMutateErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutateErr = err
}
