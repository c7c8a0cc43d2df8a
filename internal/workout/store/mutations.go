package store

import (
	"context"
	"fmt"
	"time"

	"github.com/arieyuval/plates-go/internal/telemetry/tracing"
	"github.com/arieyuval/plates-go/internal/workout"
	"github.com/arieyuval/plates-go/internal/workout/remote"

	"go.opentelemetry.io/otel/attribute"
)

// Every mutation routes through the remote service first and touches the
// cache only after the remote call succeeded, so a failure never needs a
// rollback. Set mutations then re-fetch the affected exercise's sets, since
// the fresh derived ordering has to come from the backend; the pinned note
// and PR rep target are scalars the caller already knows, so those two
// paths patch the cached exercise directly instead of re-fetching.

// LogSet records a new set and refreshes the owning exercise's cache slice.
// The remote error, if any, is returned to the caller so the UI can react
// inline; other exercises' cached sets are not touched either way.
func (s *Store) LogSet(ctx context.Context, params remote.LogSetParams) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.logSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", params.ExerciseID))

	if s.userID == "" {
		return ErrNoSession
	}

	if err := s.client.LogSet(ctx, params); err != nil {
		s.metrics.CounterRemoteErrors.Inc()
		return fmt.Errorf("log set: %w", err)
	}
	s.metrics.CounterMutations.WithLabelValues("log-set").Inc()

	s.RefreshExerciseSets(ctx, params.ExerciseID)
	return nil
}

func (s *Store) UpdateSet(ctx context.Context, setID, exerciseID string, params remote.UpdateSetParams) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.updateSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("set.id", setID))

	if s.userID == "" {
		return ErrNoSession
	}

	if err := s.client.UpdateSet(ctx, setID, params); err != nil {
		s.metrics.CounterRemoteErrors.Inc()
		return fmt.Errorf("update set: %w", err)
	}
	s.metrics.CounterMutations.WithLabelValues("update-set").Inc()

	s.RefreshExerciseSets(ctx, exerciseID)
	return nil
}

func (s *Store) DeleteSet(ctx context.Context, setID, exerciseID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.deleteSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("set.id", setID))

	if s.userID == "" {
		return ErrNoSession
	}

	if err := s.client.DeleteSet(ctx, setID); err != nil {
		s.metrics.CounterRemoteErrors.Inc()
		return fmt.Errorf("delete set: %w", err)
	}
	s.metrics.CounterMutations.WithLabelValues("delete-set").Inc()

	s.RefreshExerciseSets(ctx, exerciseID)
	return nil
}

// AddExercise finds-or-creates the exercise on the backend (idempotent on
// name + muscle group, the backend links the existing record to the user)
// and refreshes the cached exercise list wholesale, so a repeated add can
// never produce a duplicate cache entry.
func (s *Store) AddExercise(ctx context.Context, params remote.AddExerciseParams) (_ *workout.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.addExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.name", params.Name))

	if s.userID == "" {
		return nil, ErrNoSession
	}

	exercise, err := s.client.AddExercise(ctx, params)
	if err != nil {
		s.metrics.CounterRemoteErrors.Inc()
		return nil, fmt.Errorf("add exercise: %w", err)
	}
	s.metrics.CounterMutations.WithLabelValues("add-exercise").Inc()

	s.RefreshExercises(ctx)
	return exercise, nil
}

// UpdatePinnedNote patches the cached exercise's note in place after the
// remote call succeeded, without a re-fetch.
func (s *Store) UpdatePinnedNote(ctx context.Context, exerciseID string, note *string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.updatePinnedNote")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	if s.userID == "" {
		return ErrNoSession
	}

	if err := s.client.UpdatePinnedNote(ctx, exerciseID, note); err != nil {
		s.metrics.CounterRemoteErrors.Inc()
		return fmt.Errorf("update pinned note: %w", err)
	}
	s.metrics.CounterMutations.WithLabelValues("update-pinned-note").Inc()

	s.patchExercise(exerciseID, func(e *workout.Exercise) {
		e.PinnedNote = note
	})
	s.notify(UpdateNotePinned)
	return nil
}

// UpdateUserPRReps is the second optimistic-patch path, same pattern as
// the pinned note.
func (s *Store) UpdateUserPRReps(ctx context.Context, exerciseID string, reps *int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.updateUserPRReps")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	if s.userID == "" {
		return ErrNoSession
	}

	if err := s.client.UpdateUserPRReps(ctx, exerciseID, reps); err != nil {
		s.metrics.CounterRemoteErrors.Inc()
		return fmt.Errorf("update user PR reps: %w", err)
	}
	s.metrics.CounterMutations.WithLabelValues("update-pr-reps").Inc()

	s.patchExercise(exerciseID, func(e *workout.Exercise) {
		e.UserPRReps = reps
	})
	s.notify(UpdatePRTarget)
	return nil
}

func (s *Store) LogBodyWeight(ctx context.Context, weight float64, createdAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.logBodyWeight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if s.userID == "" {
		return ErrNoSession
	}

	if err := s.client.LogBodyWeight(ctx, weight, createdAt); err != nil {
		s.metrics.CounterRemoteErrors.Inc()
		return fmt.Errorf("log body weight: %w", err)
	}
	s.metrics.CounterMutations.WithLabelValues("log-body-weight").Inc()

	s.RefreshBodyWeightLogs(ctx)
	return nil
}

func (s *Store) patchExercise(exerciseID string, patch func(e *workout.Exercise)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.exercises {
		if s.exercises[i].ID == exerciseID {
			patch(&s.exercises[i])
			return
		}
	}
}
