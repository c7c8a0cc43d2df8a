package store

import (
	"time"

	"github.com/arieyuval/plates-go/internal/workout"
)

// Read accessors operate on cached state only and never trigger network
// I/O. Without a user session they return empty collections; that is the
// deliberate "no session yet" default, not a fault. Returned slices are
// copies, so callers can hold on to them across refreshes.

func (s *Store) Exercises() []workout.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	exercises := make([]workout.Exercise, len(s.exercises))
	copy(exercises, s.exercises)
	return exercises
}

// Exercise returns the cached exercise with the given ID, or nil.
func (s *Store) Exercise(exerciseID string) *workout.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.exercises {
		if s.exercises[i].ID == exerciseID {
			e := s.exercises[i]
			return &e
		}
	}
	return nil
}

// Sets returns the cached sets for an exercise, most recent first,
// or an empty slice if nothing is cached for it.
func (s *Store) Sets(exerciseID string) []workout.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached := s.setsByExercise[exerciseID]
	sets := make([]workout.Set, len(cached))
	copy(sets, cached)
	return sets
}

func (s *Store) BodyWeightLogs() []workout.BodyWeightLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]workout.BodyWeightLog, len(s.bodyWeightLogs))
	copy(logs, s.bodyWeightLogs)
	return logs
}

// LastSession returns the heaviest set of the most recent training day
// before today, for the given exercise.
func (s *Store) LastSession(exerciseID string) *workout.Set {
	return workout.LastSessionTopSet(s.Sets(exerciseID), s.now())
}

// LastSet returns the most recent set for the given exercise.
func (s *Store) LastSet(exerciseID string) *workout.Set {
	return workout.LastSet(s.Sets(exerciseID))
}

// CurrentPR returns the heaviest weight lifted for at least repTarget reps.
func (s *Store) CurrentPR(exerciseID string, repTarget int) *workout.PersonalRecord {
	return workout.PR(s.Sets(exerciseID), repTarget)
}

// PersonalRecords returns the PR overview for the fixed rep target menu.
func (s *Store) PersonalRecords(exerciseID string) []workout.PersonalRecord {
	return workout.CalculatePRs(s.Sets(exerciseID))
}

// BestDistance returns the maximum distance among the cached cardio sets.
func (s *Store) BestDistance(exerciseID string) *float64 {
	return workout.BestDistance(s.Sets(exerciseID))
}

func (s *Store) ChartData(exerciseID string, repFilter int) []workout.ChartPoint {
	return workout.ChartData(s.Sets(exerciseID), repFilter)
}

func (s *Store) BodyWeightChartData() []workout.ChartPoint {
	return workout.BodyWeightChartData(s.BodyWeightLogs())
}

func (s *Store) BodyWeightExerciseChartData(exerciseID string) []workout.ChartPoint {
	return workout.BodyWeightExerciseChartData(s.Sets(exerciseID))
}

// WorkoutLabelForDay classifies the workout of the given calendar day by
// the primary muscle groups of the exercises trained that day.
func (s *Store) WorkoutLabelForDay(day time.Time) string {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	s.mu.Lock()
	groupByExercise := make(map[string]workout.MuscleGroup, len(s.exercises))
	for _, e := range s.exercises {
		groupByExercise[e.ID] = e.PrimaryMuscleGroup()
	}

	var pairs []workout.ExerciseMuscleGroup
	for exerciseID, sets := range s.setsByExercise {
		for _, set := range sets {
			if set.CreatedAt.Before(dayStart) || !set.CreatedAt.Before(dayEnd) {
				continue
			}
			pairs = append(pairs, workout.ExerciseMuscleGroup{
				ExerciseID:  exerciseID,
				MuscleGroup: groupByExercise[exerciseID],
			})
			break
		}
	}
	s.mu.Unlock()

	return workout.WorkoutLabel(pairs)
}

// ErrorMessage returns the last remote failure message, empty when the
// last fetch attempt succeeded.
func (s *Store) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMessage
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

func (s *Store) LastFetchedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFetchedAt
}
