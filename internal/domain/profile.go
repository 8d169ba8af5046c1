package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Goal string

const (
	GoalCut      Goal = "cut"
	GoalBulk     Goal = "bulk"
	GoalMaintain Goal = "maintain"
)

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// BaselineEquipmentName is the equipment every profile owns implicitly,
// so exercises that need no gear always stay selectable.
const BaselineEquipmentName = "bodyweight"

// Bounds for onboarding attributes.
const (
	MinFrequency = 1
	MaxFrequency = 7
	MinHeightCM  = 50.0
	MaxHeightCM  = 250.0
	MinWeightKG  = 20.0
	MaxWeightKG  = 500.0
	MinAge       = 13
	MaxAge       = 100
)

var ErrInvalidProfile = errors.New("invalid profile")

// Profile holds a user's onboarding attributes with resolved equipment and injuries.
type Profile struct {
	ID              int64           `bson:"_id" json:"id"`
	UserID          int64           `bson:"userId" json:"userId"`
	FirstName       string          `bson:"firstName" json:"firstName"`
	LastName        string          `bson:"lastName" json:"lastName"`
	BirthDate       time.Time       `bson:"birthDate" json:"birthDate"`
	Gender          Gender          `bson:"gender" json:"gender"`
	HeightCM        float64         `bson:"heightCm" json:"heightCm"`
	WeightKG        float64         `bson:"weightKg" json:"weightKg"`
	ExperienceLevel ExperienceLevel `bson:"experienceLevel" json:"experienceLevel"`
	Goal            Goal            `bson:"goal" json:"goal"`
	Frequency       int             `bson:"frequency" json:"frequency"` // Training days per week
	Equipment       []Equipment     `bson:"-" json:"equipment"`
	Injuries        []Injury        `bson:"-" json:"injuries"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// HasEquipment reports whether the equipment id is in the profile's equipment set.
func (p *Profile) HasEquipment(id int64) bool {
	for _, e := range p.Equipment {
		if e.ID == id {
			return true
		}
	}
	return false
}

// EquipmentIDs returns the ids of the profile's equipment in order.
func (p *Profile) EquipmentIDs() []int64 {
	ids := make([]int64, 0, len(p.Equipment))
	for _, e := range p.Equipment {
		ids = append(ids, e.ID)
	}
	return ids
}

// InjuryIDs returns the ids of the profile's injuries in order.
func (p *Profile) InjuryIDs() []int64 {
	ids := make([]int64, 0, len(p.Injuries))
	for _, i := range p.Injuries {
		ids = append(ids, i.ID)
	}
	return ids
}

// EnsureBaselineEquipment adds the baseline equipment entry to the profile
// unless an entry with the same id or name is already present. Calling it
// repeatedly leaves exactly one baseline entry.
func (p *Profile) EnsureBaselineEquipment(baseline Equipment) {
	for _, e := range p.Equipment {
		if e.ID == baseline.ID || strings.EqualFold(e.Name, baseline.Name) {
			return
		}
	}
	p.Equipment = append(p.Equipment, baseline)
}

// Validate checks the onboarding attributes against their allowed ranges.
func (p *Profile) Validate(now time.Time) error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidProfile)
	}
	switch p.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, p.Gender)
	}
	switch p.Goal {
	case GoalCut, GoalBulk, GoalMaintain:
	default:
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidProfile, p.Goal)
	}
	switch p.ExperienceLevel {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
	default:
		return fmt.Errorf("%w: unknown experience level %q", ErrInvalidProfile, p.ExperienceLevel)
	}
	if p.Frequency < MinFrequency || p.Frequency > MaxFrequency {
		return fmt.Errorf("%w: frequency must be between %d and %d", ErrInvalidProfile, MinFrequency, MaxFrequency)
	}
	if p.HeightCM < MinHeightCM || p.HeightCM > MaxHeightCM {
		return fmt.Errorf("%w: height must be between %.0f and %.0f cm", ErrInvalidProfile, MinHeightCM, MaxHeightCM)
	}
	if p.WeightKG < MinWeightKG || p.WeightKG > MaxWeightKG {
		return fmt.Errorf("%w: weight must be between %.0f and %.0f kg", ErrInvalidProfile, MinWeightKG, MaxWeightKG)
	}
	age := AgeOn(p.BirthDate, now)
	if age < MinAge || age > MaxAge {
		return fmt.Errorf("%w: age must be between %d and %d", ErrInvalidProfile, MinAge, MaxAge)
	}
	return nil
}

// AgeOn returns the age in whole years of someone born on birth at the date of now.
func AgeOn(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
