package risk

import (
	"fmt"
	"math"
	"sort"
	"time"

	"medical-appointments/internal/domain/entity"
)

// MaxAlerts caps the alert list.
const MaxAlerts = 50

const (
	criticalThreshold = 60.0
	criticalSevere    = 80.0
	maxCritical       = 3
)

type AlertType string

const (
	AlertHighRisk   AlertType = "ALTO_RIESGO"
	AlertMediumRisk AlertType = "MEDIO_RIESGO"
)

type Priority string

const (
	PriorityHigh   Priority = "ALTA"
	PriorityMedium Priority = "MEDIA"
)

// CriticalFactor surfaces a sub-score above the critical threshold.
type CriticalFactor struct {
	Factor string `json:"factor"`
	Value  int    `json:"value"`
	Level  string `json:"level"`
}

type Alert struct {
	Type            AlertType        `json:"type"`
	Priority        Priority         `json:"priority"`
	AppointmentID   uint             `json:"appointment_id"`
	PatientID       uint             `json:"patient_id"`
	PatientName     string           `json:"patient_name"`
	DoctorID        uint             `json:"doctor_id"`
	Date            string           `json:"date"`
	Time            string           `json:"time"`
	Specialty       string           `json:"specialty"`
	Percent         int              `json:"percent"`
	Probability     float64          `json:"probability"`
	Level           Level            `json:"level"`
	Message         string           `json:"message"`
	CriticalFactors []CriticalFactor `json:"critical_factors"`
	Recommendations []string         `json:"recommendations"`
}

// GenerateAlerts scores open appointments starting after now and returns the ones above
// the medium threshold, high priority first, then by descending probability. limit values
// outside 1..MaxAlerts mean MaxAlerts. Every scored appointment is observed on m when m is
// not nil.
func GenerateAlerts(model Model, upcoming, history []entity.Appointment, now time.Time, limit int, m *Metrics) []Alert {
	if limit <= 0 || limit > MaxAlerts {
		limit = MaxAlerts
	}

	alerts := make([]Alert, 0)
	for _, a := range upcoming {
		if !a.IsOpen() || !a.HasDate() || !a.StartsAt().After(now) {
			continue
		}

		assessment := model.Score(a, history, now)
		if m != nil {
			m.Observe(assessment)
		}

		alert, ok := newAlert(a, assessment)
		if ok {
			alerts = append(alerts, alert)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Priority != alerts[j].Priority {
			return alerts[i].Priority == PriorityHigh
		}
		return alerts[i].Probability > alerts[j].Probability
	})

	if len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts
}

func newAlert(a entity.Appointment, assessment Assessment) (Alert, bool) {
	p := assessment.Probability
	percent := Percent(p)

	alert := Alert{
		AppointmentID:   a.ID,
		PatientID:       a.PatientID,
		PatientName:     patientName(a),
		DoctorID:        a.DoctorID,
		Date:            a.Date.UTC().Format("2006-01-02"),
		Time:            a.Time,
		Specialty:       a.SpecialtyOrDefault(),
		Percent:         percent,
		Probability:     p,
		Level:           assessment.Level,
		CriticalFactors: CriticalFactors(assessment),
		Recommendations: Recommend(assessment),
	}

	switch {
	case p > HighThreshold:
		alert.Type = AlertHighRisk
		alert.Priority = PriorityHigh
		alert.Message = fmt.Sprintf("Alto riesgo de ausencia (%d%%)", percent)
	case p > MediumThreshold:
		alert.Type = AlertMediumRisk
		alert.Priority = PriorityMedium
		alert.Message = fmt.Sprintf("Riesgo medio de ausencia (%d%%)", percent)
	default:
		return Alert{}, false
	}
	return alert, true
}

// CriticalFactors returns up to three factors above 60, highest first.
func CriticalFactors(a Assessment) []CriticalFactor {
	out := make([]CriticalFactor, 0, maxCritical)
	factors := append([]Factor(nil), a.Factors...)
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Value > factors[j].Value
	})

	for _, f := range factors {
		if f.Value <= criticalThreshold {
			continue
		}
		level := "ALTO"
		if f.Value > criticalSevere {
			level = "CRÍTICO"
		}
		out = append(out, CriticalFactor{Factor: f.Name, Value: int(math.Round(f.Value)), Level: level})
		if len(out) == maxCritical {
			break
		}
	}
	return out
}

// Percent rounds a probability to a whole percentage.
func Percent(p float64) int {
	return int(math.Round(p * 100))
}

func patientName(a entity.Appointment) string {
	if name := a.Patient.FullName(); name != "" {
		return name
	}
	return fmt.Sprintf("Usuario %d", a.PatientID)
}
