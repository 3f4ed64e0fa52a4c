package risk

import (
	"math"
	"sort"
	"time"

	"medical-appointments/internal/domain/entity"
)

// Admin model factor names
const (
	FactorHistory   = "historial"
	FactorDay       = "dia"
	FactorHour      = "hora"
	FactorSpecialty = "especialidad"
	FactorSeason    = "temporada"
	FactorTenure    = "antiguedad"
)

const (
	weightHistory   = 0.35
	weightDay       = 0.20
	weightHour      = 0.15
	weightSpecialty = 0.15
	weightSeason    = 0.10
	weightTenure    = 0.05

	recentAbsenceBonus = 15.0
	recentWindow       = 3
	daysPerTenureMonth = 30
	maxSpecialtyScore  = 80.0
	defaultAdjustment  = 35.0

	neutralHistory   = 40.0
	neutralDay       = 35.0
	neutralHour      = 45.0
	neutralSpecialty = 40.0
	neutralSeason    = 35.0
	neutralTenure    = 40.0
	newPatientTenure = 55.0
)

// AdminFactorCount is the number of weighted factors in AdminModel.
const AdminFactorCount = 6

var dayScores = map[time.Weekday]float64{
	time.Sunday:    65,
	time.Monday:    25,
	time.Tuesday:   30,
	time.Wednesday: 35,
	time.Thursday:  45,
	time.Friday:    70,
	time.Saturday:  75,
}

var specialtyAdjustments = map[string]float64{
	"Urgencias":        20,
	"Medicina General": 35,
	"Pediatría":        45,
	"Ginecología":      30,
	"Cardiología":      25,
	"Dermatología":     40,
	"Oftalmología":     35,
	"Traumatología":    50,
}

// AdminModel is the six-factor weighted model used by the administration analytics.
type AdminModel struct{}

func NewAdminModel() AdminModel {
	return AdminModel{}
}

func (AdminModel) Name() string {
	return ModelAdmin
}

func (AdminModel) Score(target entity.Appointment, history []entity.Appointment, now time.Time) Assessment {
	pool := others(target, history)
	own := ofPatient(target.PatientID, pool)

	factors := []Factor{
		{Name: FactorHistory, Value: historyScore(own), Weight: weightHistory},
		{Name: FactorDay, Value: dayScore(target), Weight: weightDay},
		{Name: FactorHour, Value: hourScore(target), Weight: weightHour},
		{Name: FactorSpecialty, Value: specialtyScore(target.SpecialtyOrDefault(), pool), Weight: weightSpecialty},
		{Name: FactorSeason, Value: seasonScore(target), Weight: weightSeason},
		{Name: FactorTenure, Value: tenureScore(own, now), Weight: weightTenure},
	}

	var raw float64
	for _, f := range factors {
		raw += f.Value * f.Weight
	}

	bonus := recentAbsence(own, now)
	if bonus {
		raw += recentAbsenceBonus
	}

	p := clamp(raw / 100)
	return Assessment{
		Model:              ModelAdmin,
		Probability:        p,
		RawScore:           raw,
		Level:              LevelOf(p),
		Factors:            factors,
		RecentAbsenceBonus: bonus,
	}
}

func historyScore(own []entity.Appointment) float64 {
	if len(own) == 0 {
		return neutralHistory
	}
	return math.Min(absenceRate(own)*100, 100)
}

func dayScore(a entity.Appointment) float64 {
	if !a.HasDate() {
		return neutralDay
	}
	return dayScores[a.Date.UTC().Weekday()]
}

func hourScore(a entity.Appointment) float64 {
	h, ok := a.Hour()
	if !ok {
		return neutralHour
	}
	switch {
	case h < 7:
		return 80
	case h < 9:
		return 40
	case h < 11:
		return 25
	case h < 14:
		return 35
	case h < 17:
		return 50
	case h < 19:
		return 65
	default:
		return 75
	}
}

func specialtyScore(specialty string, pool []entity.Appointment) float64 {
	var same []entity.Appointment
	for _, a := range pool {
		if a.SpecialtyOrDefault() == specialty {
			same = append(same, a)
		}
	}
	if len(same) == 0 {
		return neutralSpecialty
	}

	adjustment, ok := specialtyAdjustments[specialty]
	if !ok {
		adjustment = defaultAdjustment
	}
	return math.Min((absenceRate(same)*100+adjustment)/2, maxSpecialtyScore)
}

func seasonScore(a entity.Appointment) float64 {
	if !a.HasDate() {
		return neutralSeason
	}
	switch a.Date.UTC().Month() {
	case time.December, time.January, time.February:
		return 70
	case time.July, time.August:
		return 50
	case time.April, time.May, time.October:
		return 20
	default:
		return 35
	}
}

func tenureScore(own []entity.Appointment, now time.Time) float64 {
	if len(own) == 0 {
		return newPatientTenure
	}

	var first time.Time
	for _, a := range own {
		if !a.HasDate() {
			continue
		}
		if first.IsZero() || a.Date.Before(first) {
			first = a.Date
		}
	}
	if first.IsZero() {
		return neutralTenure
	}

	months := now.Sub(first).Hours() / 24 / daysPerTenureMonth
	if months < 0 {
		months = 0
	}
	return math.Max(10, 60-math.Min(months*2, 50))
}

// recentAbsence looks at the latest past appointments of the patient.
func recentAbsence(own []entity.Appointment, now time.Time) bool {
	past := make([]entity.Appointment, 0, len(own))
	for _, a := range own {
		if a.HasDate() && a.StartsAt().Before(now) {
			past = append(past, a)
		}
	}
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].StartsAt().After(past[j].StartsAt())
	})
	if len(past) > recentWindow {
		past = past[:recentWindow]
	}
	for i := range past {
		if past[i].IsAbsence() {
			return true
		}
	}
	return false
}
