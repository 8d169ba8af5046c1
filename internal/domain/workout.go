package domain

import "time"

// WorkoutRecord is one persisted, dated day of a generated plan.
// Records are created by the plan persister and never mutated afterwards.
type WorkoutRecord struct {
	ID        int64     `bson:"_id" json:"id"`
	UserID    int64     `bson:"userId" json:"userId"`
	Date      time.Time `bson:"date" json:"date"` // Calendar day at 00:00 UTC
	Day       PlanDay   `bson:"exerciseList" json:"exerciseList"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CalendarDate truncates t to its calendar day, expressed at midnight UTC.
// The wall-clock date of t is kept as-is, no timezone conversion happens.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
