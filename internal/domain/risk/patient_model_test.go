package risk

import (
	"testing"
	"time"

	"medical-appointments/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestPatientModel_BaseRiskOnly(t *testing.T) {
	target := entity.Appointment{PatientID: 1, Date: date(2025, time.June, 11), Time: "10:00", Specialty: "Medicina General"}

	got := NewPatientModel(0).Score(target, nil, date(2025, time.June, 1))

	assert.InDelta(t, 0.20, got.Probability, 1e-9)
	assert.Equal(t, ModelPatient, got.Model)
	assert.Equal(t, 1.0, got.Multiplier)
}

func TestPatientModel_SevereSymptomsAddThenDiscount(t *testing.T) {
	target := entity.Appointment{
		PatientID: 1,
		Date:      date(2025, time.June, 9),
		Time:      "08:00",
		Specialty: "Cardiología",
		Symptoms:  "Dolor en el pecho, Falta de aire",
	}
	assert.Equal(t, time.Monday, target.Date.Weekday())

	got := NewPatientModel(DefaultSevereSymptomMultiplier).Score(target, nil, date(2025, time.June, 1))

	// (0.20 + 0.18 + 0.12 + 0.20 + 0.10 + 0.35) * 0.6
	assert.InDelta(t, 0.69, got.Probability, 1e-9)
	assert.Equal(t, DefaultSevereSymptomMultiplier, got.Multiplier)
	severe, _ := got.Value(FactorSevereSymptoms)
	assert.InDelta(t, 35, severe, 1e-9)

	undiscounted := NewPatientModel(1).Score(target, nil, date(2025, time.June, 1))
	assert.Equal(t, MaxProbability, undiscounted.Probability)
}

func TestPatientModel_HistoryAndLogistics(t *testing.T) {
	now := date(2025, time.June, 1)
	history := []entity.Appointment{
		{ID: 1, PatientID: 2, Date: date(2025, time.May, 2), Absent: true, Status: entity.AppointmentStatusAbsent},
		{ID: 2, PatientID: 2, Date: date(2025, time.May, 9), Status: entity.AppointmentStatusCancelled},
		{ID: 3, PatientID: 2, Date: date(2025, time.May, 16), Status: entity.AppointmentStatusCompleted},
		{ID: 9, PatientID: 3, Date: date(2025, time.May, 16), Status: entity.AppointmentStatusCancelled},
	}
	target := entity.Appointment{ID: 20, PatientID: 2, Date: date(2025, time.June, 11), Time: "10:00", Office: "Hospital Central - Piso 3"}

	got := NewPatientModel(0).Score(target, history, now)

	// base + complex office + history above 30%
	assert.InDelta(t, 0.20+0.10+0.30, got.Probability, 1e-9)
}

func TestPatientModel_SymptomCountSteps(t *testing.T) {
	now := date(2025, time.June, 1)
	base := entity.Appointment{PatientID: 1, Date: date(2025, time.June, 11), Time: "10:00"}
	cases := map[string]float64{
		"Tos":                                0.20,
		"Tos, Mareo":                         0.30,
		"Tos, Mareo, Fatiga":                 0.375,
		"Tos, Mareo, Fatiga, Náuseas, Dolor": 0.45,
	}

	for symptoms, want := range cases {
		a := base
		a.Symptoms = symptoms
		assert.InDelta(t, want, NewPatientModel(0).Score(a, nil, now).Probability, 1e-9, symptoms)
	}
}

func TestAdvice(t *testing.T) {
	assert.Contains(t, Advice(0.9, true), "Síntomas graves")
	assert.Contains(t, Advice(0.1, false), "Bajo riesgo")
	assert.Contains(t, Advice(0.45, false), "Riesgo medio")
	assert.Contains(t, Advice(0.6, false), "Alto riesgo")
	assert.True(t, HasSevereSymptom([]string{"tos", "fiebre alta"}))
	assert.False(t, HasSevereSymptom(nil))
}
