package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fitcoach/backend/internal/domain"
)

// PromptPayload is the composed request for the generative model together
// with the candidate exercises it was allowed to choose from.
type PromptPayload struct {
	Text       string
	Candidates []domain.Exercise
}

// Eligible returns the candidates keyed by exercise id.
func (p PromptPayload) Eligible() map[int64]domain.Exercise {
	eligible := make(map[int64]domain.Exercise, len(p.Candidates))
	for _, e := range p.Candidates {
		eligible[e.ID] = e
	}
	return eligible
}

const planInstructions = `Create an effective 4 week workout plan specifically tailored for the user profile below. Your answer must be strictly JSON.
Guide:
- For each workout day, include 5-8 exercises that together take approximately 60 minutes to complete (including rest periods)
- For each workout day, group together exercises so that the user can hit all main muscle groups effectively in a week given their weekly frequency, so they have a structured split (e.g. push/pull/legs, upper/lower)
- Do not include duplicate or nearly-identical exercises on the same day (e.g. Barbell full squat and Barbell squat)
- Take the injuries listed in the profile into account and avoid exercises that would aggravate them
`

const planOutputSchema = `Format the output in JSON so it has the following structure (date_offset counts days from the first day of the plan, starting at 0):
{
  "weeks": [
    {
      "week_number": 1,
      "days": [
        {
          "day_number": 1,
          "date_offset": 0,
          "exercises": [
            {
              "exercise_id": 20,
              "name": "Shoulder press",
              "sets": 3,
              "reps": "10-12",
              "suggested_weight": "40kg-45kg",
              "suggested_rest_period": "60 seconds",
              "notes": "Do a couple of warm up sets with light weight if needed"
            }
          ]
        }
      ]
    }
  ]
}
`

type promptCandidate struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Muscle    string  `json:"muscle"`
	Equipment *string `json:"equipment"`
}

// Compose renders the profile and the equipment-compatible part of the
// catalog into the plan request text. It is a pure function of its inputs:
// catalog order does not matter and neither argument is modified.
func Compose(profile *domain.Profile, catalog []domain.Exercise) PromptPayload {
	candidates := make([]domain.Exercise, 0, len(catalog))
	for _, e := range catalog {
		if e.IsEligibleFor(profile) {
			candidates = append(candidates, e)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	var b strings.Builder
	b.WriteString(planInstructions)

	b.WriteString("\nUser Profile:\n")
	writeAttr(&b, "Gender", string(profile.Gender))
	writeAttr(&b, "Goal", string(profile.Goal))
	writeAttr(&b, "Height in cm", strconv.FormatFloat(profile.HeightCM, 'f', -1, 64))
	writeAttr(&b, "Weight in kg", strconv.FormatFloat(profile.WeightKG, 'f', -1, 64))
	writeAttr(&b, "Experience Level", string(profile.ExperienceLevel))
	writeAttr(&b, "Weekly Frequency", strconv.Itoa(profile.Frequency))
	writeAttr(&b, "Equipment Available", nameList(equipmentNames(profile.Equipment)))
	writeAttr(&b, "Injuries Sustained", nameList(injuryNames(profile.Injuries)))

	b.WriteString("\nAvailable exercises (only choose from these, refer to them by id, and prefer conventional exercises the user will easily understand):\n")
	for _, e := range candidates {
		b.Write(candidateLine(e))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(planOutputSchema)

	return PromptPayload{Text: b.String(), Candidates: candidates}
}

func writeAttr(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "%s: %s\n", key, value)
}

func candidateLine(e domain.Exercise) []byte {
	c := promptCandidate{ID: e.ID, Name: e.Name, Muscle: e.TargetMuscle}
	if name := e.EquipmentName(); name != "" {
		c.Equipment = &name
	}
	// Marshalling a struct of strings and ints cannot fail.
	line, _ := json.Marshal(c)
	return line
}

func equipmentNames(items []domain.Equipment) []string {
	names := make([]string, 0, len(items))
	for _, e := range items {
		names = append(names, e.Name)
	}
	return names
}

func injuryNames(items []domain.Injury) []string {
	names := make([]string, 0, len(items))
	for _, i := range items {
		names = append(names, i.Name)
	}
	return names
}

func nameList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
