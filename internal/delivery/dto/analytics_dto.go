package dto

import (
	"time"

	"medical-appointments/internal/domain/risk"
)

// RiskPreviewRequest scores a booking that has not been saved yet.
type RiskPreviewRequest struct {
	DoctorID  uint     `json:"doctor_id"`
	Date      string   `json:"date" validate:"required"`
	Time      string   `json:"time" validate:"required"`
	Specialty string   `json:"specialty" validate:"omitempty,max=100"`
	Symptoms  []string `json:"symptoms" validate:"omitempty,max=20,dive,max=100"`
	Office    string   `json:"office" validate:"omitempty,max=150"`
}

type RiskResponse struct {
	AppointmentID      uint          `json:"appointment_id,omitempty"`
	Model              string        `json:"model"`
	Probability        float64       `json:"probability"`
	Percent            int           `json:"percent"`
	Level              risk.Level    `json:"level"`
	RawScore           float64       `json:"raw_score"`
	Factors            []risk.Factor `json:"factors"`
	RecentAbsenceBonus bool          `json:"recent_absence_bonus"`
	Multiplier         float64       `json:"multiplier,omitempty"`
	SevereSymptoms     bool          `json:"severe_symptoms"`
	Recommendations    []string      `json:"recommendations,omitempty"`
	Advice             string        `json:"advice,omitempty"`
}

type AlertsResponse struct {
	Alerts      []risk.Alert         `json:"alerts"`
	Total       int                  `json:"total"`
	High        int                  `json:"high"`
	Medium      int                  `json:"medium"`
	Metrics     risk.MetricsSnapshot `json:"metrics"`
	GeneratedAt time.Time            `json:"generated_at"`
}

type TrendsResponse struct {
	Months []risk.MonthBucket `json:"months"`
	Trends []risk.Trend       `json:"trends"`
	Window int                `json:"window"`
}

type MetricsResponse struct {
	Model                 string               `json:"model"`
	FactorCount           int                  `json:"factor_count"`
	Upcoming              int                  `json:"upcoming"`
	ActiveAlerts          int                  `json:"active_alerts"`
	HistoricalAbsenceRate int                  `json:"historical_absence_rate"`
	Metrics               risk.MetricsSnapshot `json:"metrics"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type DashboardResponse struct {
	TotalUsers        int64            `json:"total_users"`
	ActiveDoctors     int64            `json:"active_doctors"`
	TotalAppointments int64            `json:"total_appointments"`
	ByStatus          map[string]int64 `json:"by_status"`
	LastSevenDays     []DailyCount     `json:"last_seven_days"`
	LastTwelveMonths  []MonthlyCount   `json:"last_twelve_months"`
}
