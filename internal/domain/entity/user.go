package entity

import (
	"strings"
	"time"
)

// Document type constants
const (
	DocumentTypeDNI      = "dni"
	DocumentTypePassport = "pasaporte"
)

// User is both the login identity and the patient record referenced by appointments.
type User struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleID          int        `gorm:"not null;index" json:"role_id"`
	DocumentType    string     `gorm:"type:varchar(20);not null" json:"document_type"`
	DocumentNumber  string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"document_number"`
	VerifierDigit   string     `gorm:"type:varchar(2)" json:"verifier_digit,omitempty"`
	FirstName       string     `gorm:"type:varchar(100);not null" json:"first_name"`
	PaternalSurname string     `gorm:"type:varchar(100);not null" json:"paternal_surname"`
	MaternalSurname string     `gorm:"type:varchar(100)" json:"maternal_surname,omitempty"`
	BirthDate       *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone           string     `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Password        string     `gorm:"type:text;not null" json:"-"`
	IsActive        *bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins the given names and both surnames.
func (u *User) FullName() string {
	parts := []string{u.FirstName, u.PaternalSurname, u.MaternalSurname}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Active treats a missing flag as active, matching the column default.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

func (u *User) IsAdmin() bool {
	return u.RoleID == RoleIDAdmin
}
