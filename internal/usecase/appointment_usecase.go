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
	"medical-appointments/internal/domain/rules"
	"medical-appointments/internal/service"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("doctor already has an appointment at this date and time")
	ErrAppointmentInPast   = errors.New("appointment date and time must be in the future")
	ErrAppointmentClosed   = errors.New("appointment is already completed, cancelled or marked absent")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrInvalidStatus       = errors.New("invalid appointment status")
)

const statsCacheKey = "appointment_stats"

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	AdminCreateAppointment(ctx context.Context, req *dto.AdminCreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id uint) (*dto.AppointmentResponse, error)
	ListMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	ListAppointments(ctx context.Context, query dto.AppointmentQuery) (*dto.AppointmentListResponse, error)
	UpdateAppointment(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	AdminUpdateAppointment(ctx context.Context, id uint, req *dto.AdminUpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, id uint) (*dto.AppointmentResponse, error)
	CheckAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	GetStats(ctx context.Context) (*dto.AppointmentStatsResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	userRepo        repository.UserRepository
	auditService    service.AuditService
	statsCache      *cache.Cache
	booking         config.BookingConfig
	loc             *time.Location
	now             Clock
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	statsCache *cache.Cache,
	booking config.BookingConfig,
	loc *time.Location,
	now Clock,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		userRepo:        userRepo,
		auditService:    auditService,
		statsCache:      statsCache,
		booking:         booking,
		loc:             loc,
		now:             clockOrNow(now),
	}
}

// CreateAppointment books for the authenticated patient.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return u.book(ctx, userID, req)
}

func (u *appointmentUsecase) AdminCreateAppointment(ctx context.Context, req *dto.AdminCreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return u.book(ctx, req.PatientID, &req.CreateAppointmentRequest)
}

// book runs the conflict check and the insert in one transaction. The doctor row lock
// serializes concurrent bookings of the same doctor; the partial unique index catches
// anything that slips past it.
func (u *appointmentUsecase) book(ctx context.Context, patientID uint, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	date, err := converter.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	clock, err := converter.NormalizeClock(req.Time)
	if err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      date,
		Time:      clock,
		Specialty: strings.TrimSpace(req.Specialty),
		Reason:    strings.TrimSpace(req.Reason),
		Symptoms:  converter.JoinSymptoms(req.Symptoms),
		Office:    strings.TrimSpace(req.Office),
		Status:    entity.AppointmentStatusPending,
		Notes:     strings.TrimSpace(req.Notes),
	}
	if err := u.checkFuture(appointment); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByIDForUpdate(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to lock doctor: %+v", err)
		return nil, err
	}
	patient, err := u.userRepo.FindByID(tx, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if err := rules.ValidateParticipants(doctor, patient); err != nil {
		return nil, err
	}

	if err := u.ensureSlotFree(tx, rules.Slot{DoctorID: doctor.ID, Date: date, Time: clock}); err != nil {
		return nil, err
	}

	if appointment.Specialty == "" {
		appointment.Specialty = doctor.Specialty
	}
	if appointment.Office == "" {
		appointment.Office = doctor.Office
	}
	appointment.Observations = appointment.Notes

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "appointments") {
			return nil, ErrSlotTaken
		}
		if isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotFound
		}
		if isForeignKeyError(err, "patient") {
			return nil, ErrPatientNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	appointment.Patient = *patient
	appointment.Doctor = *doctor
	response := converter.AppointmentToResponse(appointment)

	if err := u.auditService.LogCreate(ctx, tx, actor(ctx), entity.AuditActionAppointmentCreate, "appointment", idString(appointment.ID), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, "appointments") {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.invalidateStats()
	return response, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uint) (*dto.AppointmentResponse, error) {
	appointment, err := u.findVisible(ctx, u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), entity.AppointmentFilter{PatientID: userID})
	if err != nil {
		u.log.Warnf("Failed to find appointments of patient: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, query dto.AppointmentQuery) (*dto.AppointmentListResponse, error) {
	filter, err := toAppointmentFilter(query)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
		Filters:      &query,
	}, nil
}

// UpdateAppointment lets a patient edit or reschedule an open appointment of their own.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, id uint, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return u.update(ctx, id, &dto.AdminUpdateAppointmentRequest{UpdateAppointmentRequest: *req}, false)
}

func (u *appointmentUsecase) AdminUpdateAppointment(ctx context.Context, id uint, req *dto.AdminUpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return u.update(ctx, id, req, true)
}

func (u *appointmentUsecase) update(ctx context.Context, id uint, req *dto.AdminUpdateAppointmentRequest, admin bool) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findVisible(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !admin && !appointment.IsOpen() {
		return nil, ErrAppointmentClosed
	}
	oldValue := converter.AppointmentToResponse(appointment)

	rescheduled := false
	if req.Date != nil {
		date, err := converter.ParseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		rescheduled = rescheduled || !date.Equal(appointment.Date)
		appointment.Date = date
	}
	if req.Time != nil {
		clock, err := converter.NormalizeClock(*req.Time)
		if err != nil {
			return nil, err
		}
		rescheduled = rescheduled || clock != appointment.Time
		appointment.Time = clock
	}
	if req.DoctorID != nil && *req.DoctorID != appointment.DoctorID {
		rescheduled = true
		appointment.DoctorID = *req.DoctorID
	}

	if rescheduled {
		if !appointment.IsOpen() {
			return nil, ErrAppointmentClosed
		}
		if err := u.checkFuture(appointment); err != nil {
			return nil, err
		}
		doctor, err := u.doctorRepo.FindByIDForUpdate(tx, appointment.DoctorID)
		if err != nil {
			u.log.Warnf("Failed to lock doctor: %+v", err)
			return nil, err
		}
		if err := rules.ValidateParticipants(doctor, &appointment.Patient); err != nil {
			return nil, err
		}
		slot := rules.Slot{DoctorID: doctor.ID, Date: appointment.Date, Time: appointment.Time, ExcludeID: appointment.ID}
		if err := u.ensureSlotFree(tx, slot); err != nil {
			return nil, err
		}
		appointment.Doctor = *doctor
	}

	if req.Reason != nil {
		appointment.Reason = strings.TrimSpace(*req.Reason)
	}
	if req.Symptoms != nil {
		appointment.Symptoms = converter.JoinSymptoms(*req.Symptoms)
	}
	if req.Office != nil {
		appointment.Office = strings.TrimSpace(*req.Office)
	}
	if req.Notes != nil {
		appointment.Notes = strings.TrimSpace(*req.Notes)
		if req.Observations == nil && appointment.Observations == "" {
			appointment.Observations = appointment.Notes
		}
	}
	if req.Specialty != nil {
		appointment.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Observations != nil {
		appointment.Observations = strings.TrimSpace(*req.Observations)
		if appointment.Notes == "" {
			appointment.Notes = appointment.Observations
		}
	}
	if req.Absent != nil {
		appointment.Absent = *req.Absent
	}
	if req.Status != nil {
		next := entity.AppointmentStatus(*req.Status)
		if !entity.ValidStatus(next) {
			return nil, ErrInvalidStatus
		}
		if !appointment.CanTransitionTo(next) {
			return nil, ErrInvalidTransition
		}
		if next == entity.AppointmentStatusCancelled && appointment.Status != next {
			appointment.Notes = withCancelMarker(appointment.Notes, u.now().In(u.location()))
		}
		if next == entity.AppointmentStatusAbsent {
			appointment.Absent = true
		}
		appointment.Status = next
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "appointments") {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, err
	}

	newValue := converter.AppointmentToResponse(appointment)
	if err := u.auditService.LogUpdate(ctx, tx, actor(ctx), entity.AuditActionAppointmentUpdate, "appointment", idString(id), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.invalidateStats()
	return newValue, nil
}

// CancelAppointment cancels an open appointment owned by the caller, or any one for admins.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, id uint) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findVisible(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !appointment.IsOpen() {
		return nil, ErrAppointmentClosed
	}
	oldValue := converter.AppointmentToResponse(appointment)

	notes := withCancelMarker(appointment.Notes, u.now().In(u.location()))
	rows, err := u.appointmentRepo.Cancel(tx, id, notes)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment: %+v", err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAppointmentClosed
	}

	appointment.Status = entity.AppointmentStatusCancelled
	appointment.Notes = notes
	newValue := converter.AppointmentToResponse(appointment)

	if err := u.auditService.LogUpdate(ctx, tx, actor(ctx), entity.AuditActionAppointmentCancel, "appointment", idString(id), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.invalidateStats()
	return newValue, nil
}

// CheckAvailability validates a candidate slot without booking it. Without a time it
// only reports the free catalog hours of the day.
func (u *appointmentUsecase) CheckAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	date, err := converter.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	doctor, err := u.doctorRepo.FindByID(db, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.Active() {
		return nil, ErrDoctorInactive
	}

	existing, err := u.appointmentRepo.FindByDoctorAndDate(db, doctor.ID, date)
	if err != nil {
		u.log.Warnf("Failed to find appointments of doctor: %+v", err)
		return nil, err
	}

	now := u.wallNow()
	free := make([]string, 0, len(rules.ClinicHours))
	for _, hour := range rules.FreeSlots(doctor.ID, date, existing, rules.ClinicHours) {
		candidate := entity.Appointment{Date: date, Time: hour}
		if candidate.StartsAt().After(now) {
			free = append(free, hour)
		}
	}

	response := &dto.AvailabilityResponse{FreeSlots: free}
	if strings.TrimSpace(req.Time) == "" {
		response.Available = len(free) > 0
	} else {
		clock, err := converter.NormalizeClock(req.Time)
		if err != nil {
			return nil, err
		}
		slot := rules.Slot{DoctorID: doctor.ID, Date: date, Time: clock, ExcludeID: req.ExcludeID}
		response.Available = rules.CheckConflict(slot, existing) == rules.VerdictOK
	}

	response.Verdict = string(rules.VerdictOK)
	if !response.Available {
		response.Verdict = string(rules.VerdictConflict)
	}
	return response, nil
}

// GetStats returns totals per status and specialty, served from the in-process cache
// until the next appointment write.
func (u *appointmentUsecase) GetStats(ctx context.Context) (*dto.AppointmentStatsResponse, error) {
	if cached, ok := u.statsCache.Get(statsCacheKey); ok {
		return cached.(*dto.AppointmentStatsResponse), nil
	}

	db := u.db.WithContext(ctx)
	total, err := u.appointmentRepo.Count(db)
	if err != nil {
		u.log.Warnf("Failed to count appointments: %+v", err)
		return nil, err
	}
	byStatus, err := u.appointmentRepo.CountByStatus(db)
	if err != nil {
		u.log.Warnf("Failed to count appointments by status: %+v", err)
		return nil, err
	}
	bySpecialty, err := u.appointmentRepo.CountBySpecialty(db)
	if err != nil {
		u.log.Warnf("Failed to count appointments by specialty: %+v", err)
		return nil, err
	}

	stats := &dto.AppointmentStatsResponse{
		Total:       total,
		ByStatus:    statusCounts(byStatus),
		BySpecialty: make(map[string]int64, len(bySpecialty)),
	}
	for _, row := range bySpecialty {
		specialty := strings.TrimSpace(row.Specialty)
		if specialty == "" {
			specialty = entity.DefaultSpecialty
		}
		stats.BySpecialty[specialty] += row.Count
	}
	absences := stats.ByStatus[string(entity.AppointmentStatusCancelled)] + stats.ByStatus[string(entity.AppointmentStatusAbsent)]
	stats.AbsenceRate = risk.RoundedPercent(int(absences), int(total))

	u.statsCache.SetDefault(statsCacheKey, stats)
	return stats, nil
}

// findVisible loads the appointment and hides it from patients who do not own it.
func (u *appointmentUsecase) findVisible(ctx context.Context, db *gorm.DB, id uint) (*entity.Appointment, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

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
	return appointment, nil
}

func (u *appointmentUsecase) ensureSlotFree(tx *gorm.DB, slot rules.Slot) error {
	existing, err := u.appointmentRepo.FindByDoctorAndDate(tx, slot.DoctorID, slot.Date)
	if err != nil {
		u.log.Warnf("Failed to find appointments of doctor: %+v", err)
		return err
	}
	if rules.CheckConflict(slot, existing) == rules.VerdictConflict {
		return ErrSlotTaken
	}
	return nil
}

func (u *appointmentUsecase) invalidateStats() {
	u.statsCache.Delete(statsCacheKey)
}

func (u *appointmentUsecase) location() *time.Location {
	if u.loc == nil {
		return time.UTC
	}
	return u.loc
}

// checkFuture rejects slots that already started unless past dates are allowed.
func (u *appointmentUsecase) checkFuture(appointment *entity.Appointment) error {
	if u.booking.AllowPastDates || appointment.StartsAt().After(u.wallNow()) {
		return nil
	}
	return ErrAppointmentInPast
}

func (u *appointmentUsecase) wallNow() time.Time {
	return converter.WallClock(u.now(), u.location())
}

func withCancelMarker(notes string, at time.Time) string {
	marker := "[Cancelada el: " + at.Format(time.RFC3339) + "]"
	if strings.TrimSpace(notes) == "" {
		return marker
	}
	return notes + "\n" + marker
}

func toAppointmentFilter(query dto.AppointmentQuery) (entity.AppointmentFilter, error) {
	filter := entity.AppointmentFilter{
		PatientID: query.PatientID,
		DoctorID:  query.DoctorID,
		Specialty: strings.TrimSpace(query.Specialty),
	}
	for _, field := range []struct {
		raw string
		dst **time.Time
	}{
		{query.Date, &filter.Date},
		{query.From, &filter.From},
		{query.To, &filter.To},
	} {
		if field.raw == "" {
			continue
		}
		d, err := converter.ParseDate(field.raw)
		if err != nil {
			return filter, err
		}
		*field.dst = &d
	}
	if query.Status != "" {
		status := entity.AppointmentStatus(query.Status)
		if !entity.ValidStatus(status) {
			return filter, ErrInvalidStatus
		}
		filter.Status = status
	}
	return filter, nil
}

func statusCounts(rows []repository.StatusCount) map[string]int64 {
	out := map[string]int64{
		string(entity.AppointmentStatusPending):   0,
		string(entity.AppointmentStatusConfirmed): 0,
		string(entity.AppointmentStatusCompleted): 0,
		string(entity.AppointmentStatusCancelled): 0,
		string(entity.AppointmentStatusAbsent):    0,
	}
	for _, row := range rows {
		out[string(row.Status)] += row.Count
	}
	return out
}
