package workout

import "time"

type ExerciseType string

const (
	ExerciseTypeStrength ExerciseType = "strength"
	ExerciseTypeCardio   ExerciseType = "cardio"
)

type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "Chest"
	MuscleGroupBack      MuscleGroup = "Back"
	MuscleGroupShoulders MuscleGroup = "Shoulders"
	MuscleGroupBiceps    MuscleGroup = "Biceps"
	MuscleGroupTriceps   MuscleGroup = "Triceps"
	MuscleGroupArms      MuscleGroup = "Arms"
	MuscleGroupLegs      MuscleGroup = "Legs"
	MuscleGroupCore      MuscleGroup = "Core"
)

// Exercise is the user-facing exercise record, as served by the remote data
// service. The first muscle group is the primary one.
type Exercise struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	MuscleGroups   []MuscleGroup `json:"muscleGroups"`
	Type           ExerciseType  `json:"type"`
	DefaultPRReps  int           `json:"defaultPrReps"`
	UsesBodyWeight bool          `json:"usesBodyWeight"`
	PinnedNote     *string       `json:"pinnedNote,omitempty"`
	GoalWeight     *float64      `json:"goalWeight,omitempty"`
	GoalReps       *int          `json:"goalReps,omitempty"`
	UserPRReps     *int          `json:"userPrReps,omitempty"`
}

func (e Exercise) PrimaryMuscleGroup() MuscleGroup {
	if len(e.MuscleGroups) == 0 {
		return ""
	}
	return e.MuscleGroups[0]
}

// PRReps returns the rep target used for the PR display,
// preferring the per-user override over the exercise default.
func (e Exercise) PRReps() int {
	if e.UserPRReps != nil {
		return *e.UserPRReps
	}
	return e.DefaultPRReps
}

// Set is a single logged workout set. Exactly one of the two payload shapes
// is present in well-formed data: {Weight, Reps} for strength sets,
// {Distance, Duration} for cardio sets.
type Set struct {
	ID         string    `json:"id"`
	ExerciseID string    `json:"exerciseId"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	Notes      *string   `json:"notes,omitempty"`

	Weight *float64 `json:"weight,omitempty"`
	Reps   *int     `json:"reps,omitempty"`

	Distance *float64 `json:"distance,omitempty"` // kilometers
	Duration *int     `json:"duration,omitempty"` // seconds
}

func (s Set) IsStrength() bool {
	return s.Weight != nil && s.Reps != nil
}

func (s Set) IsCardio() bool {
	return s.Distance != nil && s.Duration != nil
}

// WeightOrZero is used by the aggregation code, where a missing weight
// simply ranks below every real one.
func (s Set) WeightOrZero() float64 {
	if s.Weight == nil {
		return 0
	}
	return *s.Weight
}

func (s Set) RepsOrZero() int {
	if s.Reps == nil {
		return 0
	}
	return *s.Reps
}

type BodyWeightLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"createdAt"`
}

// PersonalRecord is derived from the logged sets, never persisted:
// the heaviest weight lifted among sets with at least Reps reps.
type PersonalRecord struct {
	Reps       int       `json:"reps"`
	Weight     float64   `json:"weight"`
	AchievedAt time.Time `json:"achievedAt"`
}

// ChartPoint is a single (day, value) point of a chart series,
// ordered ascending by day for left-to-right charting.
type ChartPoint struct {
	Day   time.Time `json:"day"`
	Value float64   `json:"value"`
}
