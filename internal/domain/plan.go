package domain

// GeneratedPlan is a validated multi-week plan produced by the generative model.
// It is never stored as-is; the persister flattens it into WorkoutRecords.
type GeneratedPlan struct {
	Weeks []PlanWeek `json:"weeks"`
}

type PlanWeek struct {
	WeekNumber int       `json:"week_number"`
	Days       []PlanDay `json:"days"`
}

// PlanDay is one training day. DateOffset counts whole days from the plan start.
type PlanDay struct {
	DayNumber  int                    `bson:"dayNumber" json:"day_number"`
	DateOffset int                    `bson:"dateOffset" json:"date_offset"`
	Exercises  []ExercisePrescription `bson:"exercises" json:"exercises"`
}

type ExercisePrescription struct {
	ExerciseID          int64  `bson:"exerciseId" json:"exercise_id"`
	Name                string `bson:"name" json:"name"`
	Sets                int    `bson:"sets" json:"sets"`
	Reps                string `bson:"reps" json:"reps"`
	SuggestedWeight     string `bson:"suggestedWeight" json:"suggested_weight"`
	SuggestedRestPeriod string `bson:"suggestedRestPeriod" json:"suggested_rest_period"`
	Notes               string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// DayCount returns the number of days across all weeks.
func (p *GeneratedPlan) DayCount() int {
	n := 0
	for _, w := range p.Weeks {
		n += len(w.Days)
	}
	return n
}
