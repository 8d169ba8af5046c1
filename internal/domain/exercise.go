// internal/domain/exercise.go
package domain

// Equipment is a piece of gym equipment an exercise may require.
type Equipment struct {
	ID   int64  `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Injury is a named injury a user can report during onboarding.
type Injury struct {
	ID   int64  `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Exercise is an entry of the exercise catalog.
// It is read-only for the duration of a plan generation request.
type Exercise struct {
	ID             int64      `bson:"_id" json:"id"`
	Name           string     `bson:"name" json:"name"`
	TargetMuscle   string     `bson:"targetMuscle" json:"targetMuscle"`
	EquipmentID    *int64     `bson:"equipmentId,omitempty" json:"equipmentId,omitempty"`       // nil: no equipment needed
	Equipment      *Equipment `bson:"-" json:"equipment,omitempty"`                               // Resolved by the repository
	DifficultyTier *int       `bson:"difficultyTier,omitempty" json:"difficultyTier,omitempty"` // 1-5, optional
}

// EquipmentName returns the name of the required equipment, or "" when none is required.
func (e Exercise) EquipmentName() string {
	if e.Equipment == nil {
		return ""
	}
	return e.Equipment.Name
}

// IsEligibleFor reports whether the exercise's equipment requirement is
// satisfied by the profile's equipment set.
func (e Exercise) IsEligibleFor(p *Profile) bool {
	if e.EquipmentID == nil {
		return true
	}
	return p.HasEquipment(*e.EquipmentID)
}
