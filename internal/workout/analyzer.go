package workout

import (
	"fmt"
	"sort"
	"time"
)

// PRRepTargets is the fixed menu of rep targets the PR overview is
// computed for, in display order.
var PRRepTargets = []int{1, 3, 5, 8, 10}

// All functions here are pure: they take a snapshot of sets (usually already
// filtered to one exercise by the caller) and derive a value from it.
// Ties in max-by-weight selection go to the earliest-dated set among equals.

// CalculatePRs computes a PersonalRecord for each target of PRRepTargets,
// keeping the target order and omitting targets with no qualifying set.
func CalculatePRs(sets []Set) []PersonalRecord {
	var prs []PersonalRecord
	for _, target := range PRRepTargets {
		if pr := PR(sets, target); pr != nil {
			prs = append(prs, *pr)
		}
	}
	return prs
}

// PR returns the heaviest set with at least repTarget reps, or nil
// if no set qualifies. The rep target is arbitrary here, not limited
// to the PRRepTargets menu.
func PR(sets []Set, repTarget int) *PersonalRecord {
	top := maxWeightSet(sets, repTarget)
	if top == nil {
		return nil
	}
	return &PersonalRecord{
		Reps:       repTarget,
		Weight:     top.WeightOrZero(),
		AchievedAt: top.CreatedAt,
	}
}

// CurrentMax returns the maximum weight among sets with at least minReps reps.
func CurrentMax(sets []Set, minReps int) *float64 {
	top := maxWeightSet(sets, minReps)
	if top == nil {
		return nil
	}
	weight := top.WeightOrZero()
	return &weight
}

// LastSet returns the most recent set by date, regardless of day boundaries.
func LastSet(sets []Set) *Set {
	var last *Set
	for i := range sets {
		if last == nil || sets[i].CreatedAt.After(last.CreatedAt) {
			last = &sets[i]
		}
	}
	return last
}

// LastSessionTopSet returns the heaviest set of the most recent training day
// strictly before today, today being the calendar day of the given now in its
// location. Sets logged today are deliberately excluded: mid-workout, "last
// session" must keep pointing at the previous visit.
func LastSessionTopSet(sets []Set, now time.Time) *Set {
	today := dayOf(now)

	var lastDay time.Time
	var lastDaySets []Set
	for _, s := range sets {
		day := dayOf(s.CreatedAt)
		if !day.Before(today) {
			continue
		}
		if lastDaySets == nil || day.After(lastDay) {
			lastDay = day
			lastDaySets = []Set{s}
			continue
		}
		if day.Equal(lastDay) {
			lastDaySets = append(lastDaySets, s)
		}
	}

	return maxWeightSet(lastDaySets, 0)
}

// BestDistance returns the maximum distance among cardio sets.
func BestDistance(sets []Set) *float64 {
	var best *float64
	for _, s := range sets {
		if s.Distance == nil {
			continue
		}
		if best == nil || *s.Distance > *best {
			d := *s.Distance
			best = &d
		}
	}
	return best
}

// ChartData filters sets by reps >= repFilter, keeps the max weight per
// calendar day and returns the points in chronological order.
func ChartData(sets []Set, repFilter int) []ChartPoint {
	day2max := make(map[time.Time]float64)
	for _, s := range sets {
		if s.RepsOrZero() < repFilter {
			continue
		}
		day := dayOf(s.CreatedAt)
		if w, ok := day2max[day]; !ok || s.WeightOrZero() > w {
			day2max[day] = s.WeightOrZero()
		}
	}
	return sortedPoints(day2max)
}

// BodyWeightChartData returns one point per body weight log entry,
// normalized to day granularity, in chronological order.
func BodyWeightChartData(logs []BodyWeightLog) []ChartPoint {
	points := make([]ChartPoint, 0, len(logs))
	for _, l := range logs {
		points = append(points, ChartPoint{Day: dayOf(l.CreatedAt), Value: l.Weight})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Day.Before(points[j].Day)
	})
	return points
}

// BodyWeightExerciseChartData charts rep progress for exercises scored
// relative to body weight (e.g. pull-ups): per day, the set with the
// greatest rep count wins.
func BodyWeightExerciseChartData(sets []Set) []ChartPoint {
	day2maxReps := make(map[time.Time]float64)
	for _, s := range sets {
		day := dayOf(s.CreatedAt)
		reps := float64(s.RepsOrZero())
		if r, ok := day2maxReps[day]; !ok || reps > r {
			day2maxReps[day] = reps
		}
	}
	return sortedPoints(day2maxReps)
}

// ExerciseMuscleGroup pairs an exercise with its primary muscle group,
// the input shape for WorkoutLabel.
type ExerciseMuscleGroup struct {
	ExerciseID  string      `json:"exerciseId"`
	MuscleGroup MuscleGroup `json:"muscleGroup"`
}

// WorkoutLabel classifies a day's workout by the muscle groups trained that
// day. The rules form an ordered cascade and the first matching rule wins;
// several rules can textually match the same day, so the order matters.
func WorkoutLabel(pairs []ExerciseMuscleGroup) string {
	distinct := make(map[MuscleGroup]bool)
	shouldersCount := 0
	for _, p := range pairs {
		distinct[p.MuscleGroup] = true
		if p.MuscleGroup == MuscleGroupShoulders {
			shouldersCount++
		}
	}

	switch {
	case distinct[MuscleGroupChest] && (distinct[MuscleGroupShoulders] || distinct[MuscleGroupTriceps]):
		return "Push"
	case distinct[MuscleGroupBack] && distinct[MuscleGroupBiceps] && shouldersCount <= 1:
		return "Pull"
	case distinct[MuscleGroupShoulders] && distinct[MuscleGroupArms]:
		return "Sharms"
	case len(distinct) == 1 && distinct[MuscleGroupLegs]:
		return "Legs"
	}

	groups := make([]string, 0, len(distinct))
	for g := range distinct {
		groups = append(groups, string(g))
	}
	sort.Strings(groups)

	switch len(groups) {
	case 0:
		return ""
	case 1:
		return groups[0]
	case 2:
		return fmt.Sprintf("%s & %s", groups[0], groups[1])
	default:
		return "Mixed"
	}
}

// maxWeightSet returns the heaviest set with at least minReps reps,
// earliest-dated among equal weights.
func maxWeightSet(sets []Set, minReps int) *Set {
	var top *Set
	for i := range sets {
		s := &sets[i]
		if s.RepsOrZero() < minReps {
			continue
		}
		switch {
		case top == nil,
			s.WeightOrZero() > top.WeightOrZero(),
			s.WeightOrZero() == top.WeightOrZero() && s.CreatedAt.Before(top.CreatedAt):
			top = s
		}
	}
	return top
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sortedPoints(day2value map[time.Time]float64) []ChartPoint {
	points := make([]ChartPoint, 0, len(day2value))
	for day, v := range day2value {
		points = append(points, ChartPoint{Day: day, Value: v})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Day.Before(points[j].Day)
	})
	return points
}
