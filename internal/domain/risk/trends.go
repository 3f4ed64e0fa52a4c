package risk

import (
	"fmt"
	"sort"
	"time"

	"medical-appointments/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// DefaultTrendMonths is the trailing window of the absence analysis.
const DefaultTrendMonths = 6

const (
	minBucketSize      = 5
	volumeThreshold    = 10
	specialtyThreshold = 15
	maxSpecialtyTrends = 5
)

type TrendKind string

const (
	TrendAbsence   TrendKind = "AUSENTISMO"
	TrendVolume    TrendKind = "VOLUMEN"
	TrendSpecialty TrendKind = "ESPECIALIDAD"
)

type Classification string

const (
	SharpRise       Classification = "ALZA_PELIGROSA"
	ModerateRise    Classification = "ALZA_MODERADA"
	SignificantDrop Classification = "BAJA_SIGNIFICATIVA"
	ModerateDrop    Classification = "BAJA_MODERADA"
	Stable          Classification = "ESTABLE"
	VolumeGrowth    Classification = "CRECIMIENTO"
	VolumeDecline   Classification = "DECRECIMIENTO"
)

const (
	DirectionUp   = "ALZA"
	DirectionDown = "BAJA"
)

// MonthBucket aggregates the appointments of one calendar month.
type MonthBucket struct {
	Month          string `json:"month"`
	Total          int    `json:"total"`
	Absences       int    `json:"absences"`
	Completed      int    `json:"completed"`
	AbsenceRate    int    `json:"absence_rate"`
	AttendanceRate int    `json:"attendance_rate"`
}

type Trend struct {
	Kind           TrendKind      `json:"kind"`
	Period         string         `json:"period,omitempty"`
	Specialty      string         `json:"specialty,omitempty"`
	Classification Classification `json:"classification"`
	Change         int            `json:"change"`
	Direction      string         `json:"direction,omitempty"`
	Recommendation string         `json:"recommendation,omitempty"`
	Buckets        []MonthBucket  `json:"buckets"`
}

type Report struct {
	Months []MonthBucket `json:"months"`
	Trends []Trend       `json:"trends"`
}

// AnalyzeTrends buckets history into the month of now and the months-1 before it and
// classifies the change of the absence rate, the appointment volume, and the absence
// rate per specialty.
func AnalyzeTrends(history []entity.Appointment, now time.Time, months int) Report {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	buckets := BucketByMonth(history, now, months)
	report := Report{Months: buckets, Trends: make([]Trend, 0)}
	period := fmt.Sprintf("Últimos %d meses", months)

	var qualifying []MonthBucket
	for _, b := range buckets {
		if b.Total > minBucketSize {
			qualifying = append(qualifying, b)
		}
	}

	if len(qualifying) >= 2 {
		change := qualifying[len(qualifying)-1].AbsenceRate - qualifying[0].AbsenceRate
		direction := DirectionDown
		if change > 0 {
			direction = DirectionUp
		}
		report.Trends = append(report.Trends, Trend{
			Kind:           TrendAbsence,
			Period:         period,
			Classification: Classify(change),
			Change:         abs(change),
			Direction:      direction,
			Recommendation: TrendRecommendation(change),
			Buckets:        buckets,
		})

		volume := buckets[len(buckets)-1].Total - buckets[0].Total
		if c := classifyVolume(volume); c != Stable {
			report.Trends = append(report.Trends, Trend{
				Kind:           TrendVolume,
				Period:         period,
				Classification: c,
				Change:         abs(volume),
				Buckets:        buckets,
			})
		}
	}

	report.Trends = append(report.Trends, specialtyTrends(history, now, months)...)
	return report
}

// Classify maps an absence-rate change in percentage points to its trend.
func Classify(change int) Classification {
	switch {
	case change > 8:
		return SharpRise
	case change > 3:
		return ModerateRise
	case change < -8:
		return SignificantDrop
	case change < -3:
		return ModerateDrop
	default:
		return Stable
	}
}

func TrendRecommendation(change int) string {
	switch {
	case change > 10:
		return "Implementar protocolo de reducción de ausentismo urgentemente"
	case change > 5:
		return "Revisar procesos de recordatorio y confirmación"
	case change < -5:
		return "Mantener estrategias actuales - resultados positivos"
	default:
		return "Monitorear continuamente - situación estable"
	}
}

func classifyVolume(change int) Classification {
	switch {
	case change > volumeThreshold:
		return VolumeGrowth
	case change < -volumeThreshold:
		return VolumeDecline
	default:
		return Stable
	}
}

// BucketByMonth returns one bucket per calendar month, oldest first, ending with the
// month of now. Appointments without a date are skipped.
func BucketByMonth(history []entity.Appointment, now time.Time, months int) []MonthBucket {
	return bucketWhere(history, now, months, func(entity.Appointment) bool { return true })
}

func bucketWhere(history []entity.Appointment, now time.Time, months int, keep func(entity.Appointment) bool) []MonthBucket {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC)

	buckets := make([]MonthBucket, months)
	for i := range buckets {
		buckets[i].Month = start.AddDate(0, i, 0).Format("2006-01")
	}

	for _, a := range history {
		if !a.HasDate() || !keep(a) {
			continue
		}
		d := a.Date.UTC()
		i := (d.Year()-start.Year())*12 + int(d.Month()) - int(start.Month())
		if i < 0 || i >= months {
			continue
		}
		buckets[i].Total++
		if a.IsAbsence() {
			buckets[i].Absences++
		}
		if a.Status == entity.AppointmentStatusCompleted {
			buckets[i].Completed++
		}
	}

	for i := range buckets {
		buckets[i].AbsenceRate = RoundedPercent(buckets[i].Absences, buckets[i].Total)
		buckets[i].AttendanceRate = RoundedPercent(buckets[i].Completed, buckets[i].Total)
	}
	return buckets
}

func specialtyTrends(history []entity.Appointment, now time.Time, months int) []Trend {
	seen := make(map[string]bool)
	var specialties []string
	for i := range history {
		s := history[i].SpecialtyOrDefault()
		if !seen[s] {
			seen[s] = true
			specialties = append(specialties, s)
		}
	}

	var trends []Trend
	for _, specialty := range specialties {
		buckets := bucketWhere(history, now, months, func(a entity.Appointment) bool {
			return a.SpecialtyOrDefault() == specialty
		})

		var populated []MonthBucket
		for _, b := range buckets {
			if b.Total > 0 {
				populated = append(populated, b)
			}
		}
		if len(populated) < 2 {
			continue
		}

		change := populated[len(populated)-1].AbsenceRate - populated[0].AbsenceRate
		if abs(change) <= specialtyThreshold {
			continue
		}
		c := SignificantDrop
		if change > 0 {
			c = SharpRise
		}
		trends = append(trends, Trend{
			Kind:           TrendSpecialty,
			Specialty:      specialty,
			Classification: c,
			Change:         abs(change),
			Buckets:        populated,
		})
	}

	sort.SliceStable(trends, func(i, j int) bool {
		if trends[i].Change != trends[j].Change {
			return trends[i].Change > trends[j].Change
		}
		return trends[i].Specialty < trends[j].Specialty
	})
	if len(trends) > maxSpecialtyTrends {
		trends = trends[:maxSpecialtyTrends]
	}
	return trends
}

// RoundedPercent returns part/total as a percentage rounded half up; 0 when total is 0.
func RoundedPercent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).
		IntPart())
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
