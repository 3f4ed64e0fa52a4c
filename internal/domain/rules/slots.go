package rules

import (
	"time"

	"medical-appointments/internal/domain/entity"
)

// ClinicHours is the bookable hour catalog offered to patients.
var ClinicHours = []string{
	"08:00", "09:00", "10:00", "11:00",
	"14:00", "15:00", "16:00", "17:00",
}

// FreeSlots returns the catalog hours on date not blocked for the doctor.
func FreeSlots(doctorID uint, date time.Time, existing []entity.Appointment, catalog []string) []string {
	free := make([]string, 0, len(catalog))
	for _, hour := range catalog {
		slot := Slot{DoctorID: doctorID, Date: date, Time: hour}
		if CheckConflict(slot, existing) == VerdictOK {
			free = append(free, hour)
		}
	}
	return free
}
