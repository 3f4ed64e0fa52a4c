package entity

import (
	"strings"
	"time"
)

// Doctor is managed by administrators and referenced by appointments.
type Doctor struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Specialty    string    `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Office       string    `gorm:"type:varchar(150)" json:"office,omitempty"`
	WorkSchedule string    `gorm:"type:varchar(255)" json:"work_schedule,omitempty"`
	IsActive     *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

func (d *Doctor) Active() bool {
	return d.IsActive == nil || *d.IsActive
}
