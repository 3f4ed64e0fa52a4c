// Package risk estimates no-show probability for appointments and derives alerts and
// trends from appointment history. Everything here is a pure function of its inputs.
package risk

import (
	"time"

	"medical-appointments/internal/domain/entity"
)

// Model names
const (
	ModelAdmin   = "admin"
	ModelPatient = "patient"
)

const (
	MinProbability = 0.05
	MaxProbability = 0.95

	HighThreshold   = 0.70
	MediumThreshold = 0.40
)

// Level is the categorical band of a probability.
type Level string

const (
	LevelHigh   Level = "ALTO"
	LevelMedium Level = "MEDIO"
	LevelLow    Level = "BAJO"
)

// Factor is one scored component. Value is on a 0..100 scale.
type Factor struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight,omitempty"`
}

// Assessment is the result of scoring one appointment.
type Assessment struct {
	Model              string   `json:"model"`
	Probability        float64  `json:"probability"`
	RawScore           float64  `json:"raw_score"`
	Level              Level    `json:"level"`
	Factors            []Factor `json:"factors"`
	RecentAbsenceBonus bool     `json:"recent_absence_bonus,omitempty"`
	Multiplier         float64  `json:"multiplier,omitempty"`
}

// Value returns the value of the named factor.
func (a Assessment) Value(name string) (float64, bool) {
	for _, f := range a.Factors {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}

// Model scores a target appointment against the appointment history. Implementations
// never fail: missing or malformed fields fall back to neutral values.
type Model interface {
	Name() string
	Score(target entity.Appointment, history []entity.Appointment, now time.Time) Assessment
}

// LevelOf bands a probability with the alert thresholds.
func LevelOf(p float64) Level {
	switch {
	case p > HighThreshold:
		return LevelHigh
	case p > MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

func clamp(p float64) float64 {
	if p < MinProbability {
		return MinProbability
	}
	if p > MaxProbability {
		return MaxProbability
	}
	return p
}

// others drops the target itself from history.
func others(target entity.Appointment, history []entity.Appointment) []entity.Appointment {
	if target.ID == 0 {
		return history
	}
	out := make([]entity.Appointment, 0, len(history))
	for _, a := range history {
		if a.ID != target.ID {
			out = append(out, a)
		}
	}
	return out
}

func ofPatient(patientID uint, history []entity.Appointment) []entity.Appointment {
	var out []entity.Appointment
	for _, a := range history {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out
}

func absenceRate(appointments []entity.Appointment) float64 {
	if len(appointments) == 0 {
		return 0
	}
	absences := 0
	for i := range appointments {
		if appointments[i].IsAbsence() {
			absences++
		}
	}
	return float64(absences) / float64(len(appointments))
}
