package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"fitcoach/backend/internal/domain"
)

var ErrMalformedPlan = errors.New("malformed plan")

// PlanValidationError describes the first problem found in a raw plan.
// It matches ErrMalformedPlan with errors.Is.
type PlanValidationError struct {
	Path   string // e.g. weeks[0].days[2].exercises[1].sets
	Reason string
}

func (e *PlanValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrMalformedPlan, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedPlan, e.Path, e.Reason)
}

func (e *PlanValidationError) Is(target error) bool {
	return target == ErrMalformedPlan
}

func malformed(path, format string, args ...any) error {
	return &PlanValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Wire shapes of the model response. Pointers tell missing fields apart
// from zero values.
type rawPlan struct {
	Weeks *[]rawWeek `json:"weeks"`
}

type rawWeek struct {
	WeekNumber *flexInt  `json:"week_number"`
	Days       *[]rawDay `json:"days"`
}

type rawDay struct {
	DayNumber  *flexInt       `json:"day_number"`
	DateOffset *flexInt       `json:"date_offset"`
	Exercises  *[]rawExercise `json:"exercises"`
}

type rawExercise struct {
	ExerciseID          *int64    `json:"exercise_id"`
	Name                *flexText `json:"name"`
	Sets                *flexInt  `json:"sets"`
	Reps                *flexText `json:"reps"`
	SuggestedWeight     *flexText `json:"suggested_weight"`
	SuggestedRestPeriod *flexText `json:"suggested_rest_period"`
	Notes               *flexText `json:"notes"`
}

// flexInt accepts integers and whole numbers written with a fraction, so
// "date_offset": 1.0 is read as 1. A non-zero fraction is rejected.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a number, got %s", data)
	}
	if i, err := num.Int64(); err == nil && i >= math.MinInt32 && i <= math.MaxInt32 {
		*n = flexInt(i)
		return nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("expected a whole number, got %s", num)
	}
	*n = flexInt(f)
	return nil
}

// flexText accepts a JSON string or number and keeps it as text,
// so "reps": 10 and "reps": "10" are equivalent.
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = flexText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected text or number, got %s", data)
	}
	*t = flexText(n.String())
	return nil
}

func (t *flexText) text() string {
	if t == nil {
		return ""
	}
	return strings.TrimSpace(string(*t))
}

// ParseAndValidate decodes a raw model response into a fully validated plan.
// Every prescription must reference an exercise in eligible. Any problem
// rejects the whole plan with a *PlanValidationError.
func ParseAndValidate(raw string, eligible map[int64]domain.Exercise) (*domain.GeneratedPlan, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return nil, malformed("", "empty response")
	}

	var doc rawPlan
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, malformed("", "decode: %s", err)
	}
	if doc.Weeks == nil {
		return nil, malformed("weeks", "missing")
	}
	if len(*doc.Weeks) == 0 {
		return nil, malformed("weeks", "plan has no weeks")
	}

	plan := &domain.GeneratedPlan{Weeks: make([]domain.PlanWeek, 0, len(*doc.Weeks))}
	for wi, w := range *doc.Weeks {
		week, err := validateWeek(fmt.Sprintf("weeks[%d]", wi), w, eligible)
		if err != nil {
			return nil, err
		}
		plan.Weeks = append(plan.Weeks, week)
	}
	return plan, nil
}

func validateWeek(path string, w rawWeek, eligible map[int64]domain.Exercise) (domain.PlanWeek, error) {
	if w.WeekNumber == nil {
		return domain.PlanWeek{}, malformed(path+".week_number", "missing")
	}
	weekNumber := int(*w.WeekNumber)
	if weekNumber <= 0 {
		return domain.PlanWeek{}, malformed(path+".week_number", "must be positive, got %d", weekNumber)
	}
	if w.Days == nil {
		return domain.PlanWeek{}, malformed(path+".days", "missing")
	}
	if len(*w.Days) == 0 {
		return domain.PlanWeek{}, malformed(path+".days", "week has no days")
	}

	week := domain.PlanWeek{WeekNumber: weekNumber, Days: make([]domain.PlanDay, 0, len(*w.Days))}
	for di, d := range *w.Days {
		day, err := validateDay(fmt.Sprintf("%s.days[%d]", path, di), d, eligible)
		if err != nil {
			return domain.PlanWeek{}, err
		}
		week.Days = append(week.Days, day)
	}
	return week, nil
}

func validateDay(path string, d rawDay, eligible map[int64]domain.Exercise) (domain.PlanDay, error) {
	if d.DayNumber == nil {
		return domain.PlanDay{}, malformed(path+".day_number", "missing")
	}
	dayNumber := int(*d.DayNumber)
	if dayNumber <= 0 {
		return domain.PlanDay{}, malformed(path+".day_number", "must be positive, got %d", dayNumber)
	}
	if d.Exercises == nil {
		return domain.PlanDay{}, malformed(path+".exercises", "missing")
	}
	if len(*d.Exercises) == 0 {
		return domain.PlanDay{}, malformed(path+".exercises", "day has no exercises")
	}

	// Missing or negative offsets fall back to the first day of the plan.
	offset := 0
	if d.DateOffset != nil && *d.DateOffset > 0 {
		offset = int(*d.DateOffset)
	}

	day := domain.PlanDay{
		DayNumber:  dayNumber,
		DateOffset: offset,
		Exercises:  make([]domain.ExercisePrescription, 0, len(*d.Exercises)),
	}
	for ei, e := range *d.Exercises {
		p, err := validatePrescription(fmt.Sprintf("%s.exercises[%d]", path, ei), e, eligible)
		if err != nil {
			return domain.PlanDay{}, err
		}
		day.Exercises = append(day.Exercises, p)
	}
	return day, nil
}

func validatePrescription(path string, e rawExercise, eligible map[int64]domain.Exercise) (domain.ExercisePrescription, error) {
	if e.ExerciseID == nil {
		return domain.ExercisePrescription{}, malformed(path+".exercise_id", "missing")
	}
	entry, ok := eligible[*e.ExerciseID]
	if !ok {
		return domain.ExercisePrescription{}, malformed(path+".exercise_id", "exercise %d is not an eligible candidate", *e.ExerciseID)
	}
	if e.Sets == nil {
		return domain.ExercisePrescription{}, malformed(path+".sets", "missing")
	}
	sets := int(*e.Sets)
	if sets <= 0 {
		return domain.ExercisePrescription{}, malformed(path+".sets", "must be positive, got %d", sets)
	}

	texts := []struct {
		field string
		value *flexText
	}{
		{"reps", e.Reps},
		{"suggested_weight", e.SuggestedWeight},
		{"suggested_rest_period", e.SuggestedRestPeriod},
	}
	for _, t := range texts {
		if t.value.text() == "" {
			return domain.ExercisePrescription{}, malformed(path+"."+t.field, "missing or empty")
		}
	}

	name := e.Name.text()
	if name == "" {
		name = entry.Name
	}

	return domain.ExercisePrescription{
		ExerciseID:          *e.ExerciseID,
		Name:                name,
		Sets:                sets,
		Reps:                e.Reps.text(),
		SuggestedWeight:     e.SuggestedWeight.text(),
		SuggestedRestPeriod: e.SuggestedRestPeriod.text(),
		Notes:               e.Notes.text(),
	}, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence the model may
// add despite being told not to.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
