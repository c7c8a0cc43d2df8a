// Package store owns the in-process cache of the user's workout data: the
// exercise list, the per-exercise set collections and the body weight logs.
// It is the single writer of that state; consumers read derived views
// through the accessors and react to changes via Subscribe.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arieyuval/plates-go/internal/telemetry/metrics"
	"github.com/arieyuval/plates-go/internal/telemetry/tracing"
	"github.com/arieyuval/plates-go/internal/workout"
	"github.com/arieyuval/plates-go/internal/workout/remote"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// DefaultStaleAfter is how old the cached snapshot may grow before a
// non-forced FetchAll hits the remote service again. Multiple screens
// request the same global dataset on every appearance; the TTL plus the
// in-flight flag keep that from turning into repeated remote calls.
const DefaultStaleAfter = 30 * time.Second

var ErrNoSession = errors.New("no user session")

type remoteClient interface {
	FetchExercises(ctx context.Context) ([]workout.Exercise, error)
	FetchAllSets(ctx context.Context) ([]workout.Set, error)
	FetchSets(ctx context.Context, exerciseID string) ([]workout.Set, error)
	LogSet(ctx context.Context, params remote.LogSetParams) error
	UpdateSet(ctx context.Context, setID string, params remote.UpdateSetParams) error
	DeleteSet(ctx context.Context, setID string) error
	AddExercise(ctx context.Context, params remote.AddExerciseParams) (*workout.Exercise, error)
	UpdatePinnedNote(ctx context.Context, exerciseID string, note *string) error
	UpdateUserPRReps(ctx context.Context, exerciseID string, reps *int) error
	FetchBodyWeightLogs(ctx context.Context) ([]workout.BodyWeightLog, error)
	LogBodyWeight(ctx context.Context, weight float64, createdAt time.Time) error
}

var _ remoteClient = (*remote.Client)(nil)

type UpdateReason string

const (
	UpdateFullFetch      UpdateReason = "full-fetch"
	UpdateSetsRefresh    UpdateReason = "sets-refresh"
	UpdateExercises      UpdateReason = "exercises-refresh"
	UpdateNotePinned     UpdateReason = "pinned-note"
	UpdatePRTarget       UpdateReason = "pr-reps"
	UpdateBodyWeightLogs UpdateReason = "bodyweight-refresh"
)

// Update is sent to subscribers after every successful fetch completion
// or mutation, one notification per state transition.
type Update struct {
	Reason UpdateReason
}

type Params struct {
	UserID     string
	Metrics    *metrics.Manager
	StaleAfter time.Duration    // 0 means DefaultStaleAfter
	Now        func() time.Time // nil means time.Now, settable for tests
}

// Store is constructed once per user session and shared by reference.
// All fields are guarded by mu; slices handed out by accessors are copies.
type Store struct {
	client  remoteClient
	metrics *metrics.Manager
	userID  string

	staleAfter time.Duration
	now        func() time.Time

	mu             sync.Mutex
	exercises      []workout.Exercise
	setsByExercise map[string][]workout.Set
	bodyWeightLogs []workout.BodyWeightLog
	lastFetchedAt  time.Time
	fetchInFlight  bool
	isLoading      bool
	errMessage     string
	subscribers    []chan Update
}

func NewStore(client remoteClient, params Params) *Store {
	if params.Metrics == nil {
		params.Metrics = metrics.NewManager("plates", "store", prometheus.NewRegistry())
	}
	if params.StaleAfter == 0 {
		params.StaleAfter = DefaultStaleAfter
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Store{
		client:         client,
		metrics:        params.Metrics,
		userID:         params.UserID,
		staleAfter:     params.StaleAfter,
		now:            params.Now,
		setsByExercise: make(map[string][]workout.Set),
	}
}

// Subscribe returns a channel receiving one Update per successful fetch
// completion or mutation. The send is non-blocking; a subscriber that
// stops draining misses updates instead of blocking the store.
func (s *Store) Subscribe() <-chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 8)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *Store) notify(reason UpdateReason) {
	s.mu.Lock()
	subs := make([]chan Update, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- Update{Reason: reason}:
		default:
		}
	}
}

// FetchAll refreshes the full snapshot: the exercise list and all sets,
// fetched concurrently since they are independent. A non-forced call is a
// no-op while the snapshot is still fresh, and any call is a no-op while
// another fetch is already in flight. Remote failures are swallowed into
// ErrorMessage, leaving the previous snapshot untouched.
func (s *Store) FetchAll(ctx context.Context, force bool) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.fetchAll")
	defer span.End()
	span.SetAttributes(attribute.Bool("force", force))

	if s.userID == "" {
		log.Tracef("store: fetch all skipped, no user session")
		return
	}

	s.mu.Lock()
	if !force && !s.lastFetchedAt.IsZero() && s.now().Sub(s.lastFetchedAt) <= s.staleAfter {
		s.mu.Unlock()
		span.SetAttributes(attribute.String("outcome", "cache-hit"))
		s.metrics.CounterCacheHits.Inc()
		return
	}
	if s.fetchInFlight {
		s.mu.Unlock()
		span.SetAttributes(attribute.String("outcome", "deduped"))
		s.metrics.CounterFetchesDeduped.Inc()
		return
	}
	s.fetchInFlight = true
	s.isLoading = true
	s.errMessage = ""
	s.mu.Unlock()

	s.metrics.CounterFullFetches.Inc()

	var (
		exercises []workout.Exercise
		sets      []workout.Set
		exErr     error
		setsErr   error
		wg        sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		exercises, exErr = s.client.FetchExercises(ctx)
	}()
	go func() {
		defer wg.Done()
		sets, setsErr = s.client.FetchAllSets(ctx)
	}()
	wg.Wait()

	s.mu.Lock()
	s.fetchInFlight = false
	s.isLoading = false
	if err := multierr.Combine(exErr, setsErr); err != nil {
		s.errMessage = fmt.Sprintf("refresh workout data: %s", err)
		s.mu.Unlock()
		s.metrics.CounterRemoteErrors.Inc()
		log.Errorf("store: fetch all failed: %s", err)
		return
	}
	s.exercises = exercises
	s.setsByExercise = groupSetsByExercise(sets)
	s.lastFetchedAt = s.now()
	s.mu.Unlock()

	s.notify(UpdateFullFetch)
}

// RefreshIfStale is the call-site convenience for screen appearances:
// refresh only when the snapshot aged out.
func (s *Store) RefreshIfStale(ctx context.Context) {
	s.FetchAll(ctx, false)
}

// Invalidate clears the snapshot timestamp so that the next FetchAll
// bypasses the staleness check regardless of the force flag.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFetchedAt = time.Time{}
}

// RefreshExerciseSets re-fetches the sets of a single exercise and replaces
// that one cache entry, leaving the rest of the snapshot alone. Note that
// the global staleness timestamp is deliberately not updated here: a later
// FetchAll still performs a full consistency sweep once the snapshot ages out.
func (s *Store) RefreshExerciseSets(ctx context.Context, exerciseID string) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.refreshExerciseSets")
	defer span.End()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	if s.userID == "" {
		return
	}

	s.metrics.CounterSelectiveRefreshes.Inc()

	sets, err := s.client.FetchSets(ctx, exerciseID)
	if err != nil {
		s.setErrMessage(fmt.Sprintf("refresh sets for exercise %s: %s", exerciseID, err))
		s.metrics.CounterRemoteErrors.Inc()
		log.Errorf("store: refresh sets for exercise [%s] failed: %s", exerciseID, err)
		return
	}

	sortSetsByDateDesc(sets)

	s.mu.Lock()
	s.setsByExercise[exerciseID] = sets
	s.mu.Unlock()

	s.notify(UpdateSetsRefresh)
}

// RefreshExercises re-fetches only the exercise list, a lightweight
// metadata refresh used after exercise creation.
func (s *Store) RefreshExercises(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.refreshExercises")
	defer span.End()

	if s.userID == "" {
		return
	}

	exercises, err := s.client.FetchExercises(ctx)
	if err != nil {
		s.setErrMessage(fmt.Sprintf("refresh exercises: %s", err))
		s.metrics.CounterRemoteErrors.Inc()
		log.Errorf("store: refresh exercises failed: %s", err)
		return
	}

	s.mu.Lock()
	s.exercises = exercises
	s.mu.Unlock()

	s.notify(UpdateExercises)
}

// RefreshBodyWeightLogs re-fetches the body weight log slice.
func (s *Store) RefreshBodyWeightLogs(ctx context.Context) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.refreshBodyWeightLogs")
	defer span.End()

	if s.userID == "" {
		return
	}

	logs, err := s.client.FetchBodyWeightLogs(ctx)
	if err != nil {
		s.setErrMessage(fmt.Sprintf("refresh body weight logs: %s", err))
		s.metrics.CounterRemoteErrors.Inc()
		log.Errorf("store: refresh body weight logs failed: %s", err)
		return
	}

	s.mu.Lock()
	s.bodyWeightLogs = logs
	s.mu.Unlock()

	s.notify(UpdateBodyWeightLogs)
}

func (s *Store) setErrMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMessage = msg
}

func groupSetsByExercise(sets []workout.Set) map[string][]workout.Set {
	byExercise := make(map[string][]workout.Set)
	for _, set := range sets {
		byExercise[set.ExerciseID] = append(byExercise[set.ExerciseID], set)
	}
	for _, exerciseSets := range byExercise {
		sortSetsByDateDesc(exerciseSets)
	}
	return byExercise
}

func sortSetsByDateDesc(sets []workout.Set) {
	sort.SliceStable(sets, func(i, j int) bool {
		return sets[i].CreatedAt.After(sets[j].CreatedAt)
	})
}
