package risk

import (
	"strings"
	"time"

	"medical-appointments/internal/domain/entity"
)

// Patient model factor names
const (
	FactorBase             = "base"
	FactorSymptoms         = "sintomas"
	FactorSevereSymptoms   = "sintomas_graves"
	FactorFarOffice        = "ubicacion_lejana"
	FactorComplexOffice    = "consultorio_complejo"
	FactorComplexSpecialty = "especialidad_compleja"
)

// DefaultSevereSymptomMultiplier discounts the estimate of patients reporting a severe
// symptom, who are less likely to skip the visit.
const DefaultSevereSymptomMultiplier = 0.6

const (
	patientBase          = 0.20
	mondayRisk           = 0.18
	fridayRisk           = 0.15
	weekendRisk          = 0.25
	firstHourRisk        = 0.12
	lastHourRisk         = 0.10
	complexSpecialtyRisk = 0.20
	manySymptomsRisk     = 0.25
	severeSymptomRisk    = 0.35
	farOfficeRisk        = 0.15
	complexOfficeRisk    = 0.10
	absenceHistoryRisk   = 0.30
)

var complexSpecialties = []string{"Neurología", "Cardiología", "Traumatología", "Ginecología"}

var SevereSymptoms = []string{
	"Dolor en el pecho", "Falta de aire", "Visión borrosa",
	"Sangrado irregular", "Fiebre alta", "Dolor abdominal intenso",
	"Palpitaciones", "Entumecimiento", "Limitación movimiento",
}

var farOffices = []string{
	"Hospital Regional - Torre 2",
	"Centro Médico Sur - Edificio B",
	"Hospital Regional - Torre 1",
}

var complexOffices = []string{
	"Hospital Central - Piso 3",
	"Hospital Regional - Torre 2",
	"Centro Médico Sur - Edificio B",
}

// PatientModel is the additive estimate shown to patients while booking.
type PatientModel struct {
	SevereMultiplier float64
}

// NewPatientModel uses DefaultSevereSymptomMultiplier when multiplier is not positive.
func NewPatientModel(multiplier float64) PatientModel {
	if multiplier <= 0 {
		multiplier = DefaultSevereSymptomMultiplier
	}
	return PatientModel{SevereMultiplier: multiplier}
}

func (PatientModel) Name() string {
	return ModelPatient
}

func (m PatientModel) Score(target entity.Appointment, history []entity.Appointment, now time.Time) Assessment {
	symptoms := target.SymptomList()
	severe := HasSevereSymptom(symptoms)
	own := ofPatient(target.PatientID, others(target, history))

	factors := []Factor{
		{Name: FactorBase, Value: patientBase * 100},
		{Name: FactorDay, Value: patientDayRisk(target) * 100},
		{Name: FactorHour, Value: patientHourRisk(target) * 100},
		{Name: FactorComplexSpecialty, Value: flag(contains(complexSpecialties, target.Specialty), complexSpecialtyRisk)},
		{Name: FactorSymptoms, Value: symptomCountRisk(len(symptoms)) * 100},
		{Name: FactorSevereSymptoms, Value: flag(severe, severeSymptomRisk)},
		{Name: FactorFarOffice, Value: flag(contains(farOffices, target.Office), farOfficeRisk)},
		{Name: FactorComplexOffice, Value: flag(contains(complexOffices, target.Office), complexOfficeRisk)},
		{Name: FactorHistory, Value: patientHistoryRisk(own) * 100},
	}

	var raw float64
	for _, f := range factors {
		raw += f.Value / 100
	}

	multiplier := 1.0
	if severe {
		multiplier = m.SevereMultiplier
		if multiplier <= 0 {
			multiplier = DefaultSevereSymptomMultiplier
		}
	}

	p := clamp(raw * multiplier)
	return Assessment{
		Model:       ModelPatient,
		Probability: p,
		RawScore:    raw * 100,
		Level:       LevelOf(p),
		Factors:     factors,
		Multiplier:  multiplier,
	}
}

// HasSevereSymptom reports whether any symptom is on the severe list.
func HasSevereSymptom(symptoms []string) bool {
	for _, s := range symptoms {
		if contains(SevereSymptoms, s) {
			return true
		}
	}
	return false
}

// Advice is the guidance text shown next to a patient-model estimate.
func Advice(p float64, severe bool) string {
	switch {
	case severe:
		return "ATENCIÓN: Síntomas graves detectados. Se recomienda atención prioritaria."
	case p < 0.3:
		return "Bajo riesgo de ausencia. Mantén tu cita programada."
	case p < 0.6:
		return "Riesgo medio. Establece recordatorios y confirma tu asistencia."
	default:
		return "Alto riesgo de ausencia. Confirma tu disponibilidad o considera reagendar."
	}
}

func patientDayRisk(a entity.Appointment) float64 {
	if !a.HasDate() {
		return 0
	}
	switch a.Date.UTC().Weekday() {
	case time.Monday:
		return mondayRisk
	case time.Friday:
		return fridayRisk
	case time.Saturday, time.Sunday:
		return weekendRisk
	default:
		return 0
	}
}

func patientHourRisk(a entity.Appointment) float64 {
	h, ok := a.Hour()
	if !ok {
		return 0
	}
	switch h {
	case 8:
		return firstHourRisk
	case 17:
		return lastHourRisk
	default:
		return 0
	}
}

func symptomCountRisk(n int) float64 {
	switch {
	case n >= 5:
		return manySymptomsRisk
	case n >= 3:
		return manySymptomsRisk * 0.7
	case n >= 2:
		return manySymptomsRisk * 0.4
	default:
		return 0
	}
}

func patientHistoryRisk(own []entity.Appointment) float64 {
	if len(own) == 0 {
		return 0
	}
	rate := absenceRate(own)
	switch {
	case rate > 0.3:
		return absenceHistoryRisk
	case rate > 0.1:
		return absenceHistoryRisk * 0.5
	default:
		return 0
	}
}

func flag(set bool, risk float64) float64 {
	if set {
		return risk * 100
	}
	return 0
}

func contains(list []string, value string) bool {
	value = strings.TrimSpace(value)
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
