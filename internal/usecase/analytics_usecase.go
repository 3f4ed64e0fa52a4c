package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"medical-appointments/config"
	"medical-appointments/internal/converter"
	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/delivery/http/middleware"
	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/domain/repository"
	"medical-appointments/internal/domain/risk"
	"medical-appointments/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrUnknownModel = errors.New("unknown risk model")
)

const (
	dashboardDays   = 7
	dashboardMonths = 12
	maxTrendMonths  = 24
	digestTopAlerts = 5
)

// RiskDigest summarizes one run of the alert generator.
type RiskDigest struct {
	Upcoming int
	High     int
	Medium   int
	Top      []risk.Alert
}

type AnalyticsUsecase interface {
	ScoreAppointment(ctx context.Context, id uint, model string) (*dto.RiskResponse, error)
	PreviewRisk(ctx context.Context, req *dto.RiskPreviewRequest) (*dto.RiskResponse, error)
	Alerts(ctx context.Context) (*dto.AlertsResponse, error)
	Trends(ctx context.Context, months int) (*dto.TrendsResponse, error)
	Metrics(ctx context.Context) (*dto.MetricsResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	Digest(ctx context.Context) (*RiskDigest, error)
}

type analyticsUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	userRepo        repository.UserRepository
	auditService    service.AuditService
	adminModel      risk.Model
	patientModel    risk.Model
	maxAlerts       int
	loc             *time.Location
	now             Clock
}

func NewAnalyticsUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	scoring config.ScoringConfig,
	loc *time.Location,
	now Clock,
) AnalyticsUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &analyticsUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		userRepo:        userRepo,
		auditService:    auditService,
		adminModel:      risk.NewAdminModel(),
		patientModel:    risk.NewPatientModel(scoring.SevereSymptomMultiplier),
		maxAlerts:       scoring.MaxAlerts,
		loc:             loc,
		now:             clockOrNow(now),
	}
}

// ScoreAppointment runs the selected model over the full history. Patients may only
// score their own appointments.
func (u *analyticsUsecase) ScoreAppointment(ctx context.Context, id uint, model string) (*dto.RiskResponse, error) {
	selected, err := u.model(model)
	if err != nil {
		return nil, err
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	db := u.db.WithContext(ctx)
	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !middleware.IsAdmin(ctx) && appointment.PatientID != userID {
		return nil, ErrForbidden
	}

	history, err := u.appointmentRepo.FindHistory(db)
	if err != nil {
		u.log.Warnf("Failed to load appointment history: %+v", err)
		return nil, err
	}

	assessment := selected.Score(*appointment, history, u.wallNow())
	response := riskResponse(*appointment, assessment)
	response.AppointmentID = appointment.ID
	return response, nil
}

// PreviewRisk scores an unsaved booking with the patient model. Malformed dates and
// times fall through to the model's neutral values.
func (u *analyticsUsecase) PreviewRisk(ctx context.Context, req *dto.RiskPreviewRequest) (*dto.RiskResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	candidate := entity.Appointment{
		PatientID: userID,
		DoctorID:  req.DoctorID,
		Specialty: strings.TrimSpace(req.Specialty),
		Symptoms:  converter.JoinSymptoms(req.Symptoms),
		Office:    strings.TrimSpace(req.Office),
		Status:    entity.AppointmentStatusPending,
	}
	if date, err := converter.ParseDate(req.Date); err == nil {
		candidate.Date = date
	}
	if clock, err := converter.NormalizeClock(req.Time); err == nil {
		candidate.Time = clock
	}

	db := u.db.WithContext(ctx)
	if candidate.DoctorID != 0 && (candidate.Specialty == "" || candidate.Office == "") {
		doctor, err := u.doctorRepo.FindByID(db, candidate.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor by ID: %+v", err)
			return nil, err
		}
		if doctor != nil {
			if candidate.Specialty == "" {
				candidate.Specialty = doctor.Specialty
			}
			if candidate.Office == "" {
				candidate.Office = doctor.Office
			}
		}
	}

	history, err := u.appointmentRepo.FindAll(db, entity.AppointmentFilter{PatientID: userID})
	if err != nil {
		u.log.Warnf("Failed to load patient history: %+v", err)
		return nil, err
	}

	return riskResponse(candidate, u.patientModel.Score(candidate, history, u.wallNow())), nil
}

func (u *analyticsUsecase) Alerts(ctx context.Context) (*dto.AlertsResponse, error) {
	upcoming, history, err := u.loadUpcoming(ctx)
	if err != nil {
		return nil, err
	}

	metrics := risk.NewMetrics()
	alerts := risk.GenerateAlerts(u.adminModel, upcoming, history, u.wallNow(), u.maxAlerts, metrics)

	response := &dto.AlertsResponse{
		Alerts:      alerts,
		Total:       len(alerts),
		Metrics:     metrics.Snapshot(),
		GeneratedAt: u.now().In(u.loc),
	}
	for _, a := range alerts {
		switch a.Priority {
		case risk.PriorityHigh:
			response.High++
		case risk.PriorityMedium:
			response.Medium++
		}
	}
	return response, nil
}

func (u *analyticsUsecase) Trends(ctx context.Context, months int) (*dto.TrendsResponse, error) {
	if months <= 0 {
		months = risk.DefaultTrendMonths
	}
	if months > maxTrendMonths {
		months = maxTrendMonths
	}

	history, err := u.appointmentRepo.FindHistory(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load appointment history: %+v", err)
		return nil, err
	}

	report := risk.AnalyzeTrends(history, u.wallNow(), months)
	return &dto.TrendsResponse{
		Months: report.Months,
		Trends: report.Trends,
		Window: months,
	}, nil
}

// Metrics scores every upcoming appointment with the admin model.
func (u *analyticsUsecase) Metrics(ctx context.Context) (*dto.MetricsResponse, error) {
	upcoming, history, err := u.loadUpcoming(ctx)
	if err != nil {
		return nil, err
	}

	now := u.wallNow()
	metrics := risk.NewMetrics()
	response := &dto.MetricsResponse{
		Model:       u.adminModel.Name(),
		FactorCount: risk.AdminFactorCount,
	}
	for _, a := range upcoming {
		if !a.StartsAt().After(now) {
			continue
		}
		assessment := u.adminModel.Score(a, history, now)
		metrics.Observe(assessment)
		response.Upcoming++
		if assessment.Probability > risk.MediumThreshold {
			response.ActiveAlerts++
		}
	}
	response.Metrics = metrics.Snapshot()

	absences := 0
	for i := range history {
		if history[i].IsAbsence() {
			absences++
		}
	}
	response.HistoricalAbsenceRate = risk.RoundedPercent(absences, len(history))
	return response, nil
}

// Dashboard runs the aggregate queries concurrently.
func (u *analyticsUsecase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	today := converter.Today(u.now(), u.loc)
	weekStart := today.AddDate(0, 0, -(dashboardDays - 1))
	monthStart := time.Date(today.Year(), today.Month()-(dashboardMonths-1), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, time.UTC)

	response := &dto.DashboardResponse{}
	var (
		byStatus   []repository.StatusCount
		weekDates  []time.Time
		monthDates []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	db := u.db.WithContext(gctx)

	g.Go(func() error {
		n, err := u.userRepo.Count(db)
		response.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := u.doctorRepo.CountActive(db)
		response.ActiveDoctors = n
		return err
	})
	g.Go(func() error {
		n, err := u.appointmentRepo.Count(db)
		response.TotalAppointments = n
		return err
	})
	g.Go(func() error {
		rows, err := u.appointmentRepo.CountByStatus(db)
		byStatus = rows
		return err
	})
	g.Go(func() error {
		dates, err := u.appointmentRepo.DatesBetween(db, weekStart, today.AddDate(0, 0, 1))
		weekDates = dates
		return err
	})
	g.Go(func() error {
		dates, err := u.appointmentRepo.DatesBetween(db, monthStart, monthEnd)
		monthDates = dates
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to build dashboard: %+v", err)
		return nil, err
	}

	response.ByStatus = statusCounts(byStatus)

	response.LastSevenDays = make([]dto.DailyCount, dashboardDays)
	days := make(map[string]int, dashboardDays)
	for _, d := range weekDates {
		days[converter.FormatDate(d)]++
	}
	for i := range response.LastSevenDays {
		day := converter.FormatDate(weekStart.AddDate(0, 0, i))
		response.LastSevenDays[i] = dto.DailyCount{Date: day, Count: days[day]}
	}

	response.LastTwelveMonths = make([]dto.MonthlyCount, dashboardMonths)
	months := make(map[string]int, dashboardMonths)
	for _, d := range monthDates {
		months[d.UTC().Format("2006-01")]++
	}
	for i := range response.LastTwelveMonths {
		month := monthStart.AddDate(0, i, 0).Format("2006-01")
		response.LastTwelveMonths[i] = dto.MonthlyCount{Month: month, Count: months[month]}
	}

	return response, nil
}

// Digest runs the alert generator for the scheduled job and records the run in the audit log.
func (u *analyticsUsecase) Digest(ctx context.Context) (*RiskDigest, error) {
	upcoming, history, err := u.loadUpcoming(ctx)
	if err != nil {
		return nil, err
	}

	now := u.wallNow()
	alerts := risk.GenerateAlerts(u.adminModel, upcoming, history, now, u.maxAlerts, nil)
	digest := &RiskDigest{}
	for _, a := range upcoming {
		if a.StartsAt().After(now) {
			digest.Upcoming++
		}
	}
	for _, a := range alerts {
		if a.Priority == risk.PriorityHigh {
			digest.High++
		} else {
			digest.Medium++
		}
	}
	digest.Top = alerts
	if len(digest.Top) > digestTopAlerts {
		digest.Top = digest.Top[:digestTopAlerts]
	}

	top := make([]uint, len(digest.Top))
	for i, a := range digest.Top {
		top[i] = a.AppointmentID
	}
	err = u.auditService.LogEvent(ctx, u.db.WithContext(ctx), nil, entity.AuditActionAnalyticsDigest, map[string]interface{}{
		"upcoming":         digest.Upcoming,
		"high":             digest.High,
		"medium":           digest.Medium,
		"top_appointments": top,
	})
	if err != nil {
		return nil, err
	}

	return digest, nil
}

func (u *analyticsUsecase) loadUpcoming(ctx context.Context) ([]entity.Appointment, []entity.Appointment, error) {
	db := u.db.WithContext(ctx)
	upcoming, err := u.appointmentRepo.FindOpenFrom(db, converter.Today(u.now(), u.loc))
	if err != nil {
		u.log.Warnf("Failed to load upcoming appointments: %+v", err)
		return nil, nil, err
	}
	history, err := u.appointmentRepo.FindHistory(db)
	if err != nil {
		u.log.Warnf("Failed to load appointment history: %+v", err)
		return nil, nil, err
	}
	return upcoming, history, nil
}

func (u *analyticsUsecase) model(name string) (risk.Model, error) {
	switch name {
	case "", risk.ModelAdmin:
		return u.adminModel, nil
	case risk.ModelPatient:
		return u.patientModel, nil
	default:
		return nil, ErrUnknownModel
	}
}

func (u *analyticsUsecase) wallNow() time.Time {
	return converter.WallClock(u.now(), u.loc)
}

func riskResponse(a entity.Appointment, assessment risk.Assessment) *dto.RiskResponse {
	severe := risk.HasSevereSymptom(a.SymptomList())
	response := &dto.RiskResponse{
		Model:              assessment.Model,
		Probability:        assessment.Probability,
		Percent:            risk.Percent(assessment.Probability),
		Level:              assessment.Level,
		RawScore:           assessment.RawScore,
		Factors:            assessment.Factors,
		RecentAbsenceBonus: assessment.RecentAbsenceBonus,
		Multiplier:         assessment.Multiplier,
		SevereSymptoms:     severe,
	}
	if assessment.Model == risk.ModelPatient {
		response.Advice = risk.Advice(assessment.Probability, severe)
	} else {
		response.Recommendations = risk.Recommend(assessment)
	}
	return response
}
