package models

import (
	"regexp"
	"strings"
	"time"

	"bloodlink/pkg/domain"
)

// Donor is a registered blood donor's profile.
//
// Invariants:
//   - ID equals the owning account's user ID
//   - Email is unique across donors
//   - BloodType, when set, is a member of the enumeration
//
// Available mirrors the eligibility rule but is only a denormalised search
// index. It is rewritten after every donation change; eligibility decisions
// always recompute from history instead of reading it.
type Donor struct {
	ID             domain.DonorID   `json:"id"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	FullName       string           `json:"full_name"`
	Gender         string           `json:"gender"`
	DateOfBirth    *domain.Date     `json:"date_of_birth,omitempty"`
	BloodType      domain.BloodType `json:"blood_type"`
	City           string           `json:"city"`
	District       string           `json:"district"`
	State          string           `json:"state"`
	Country        string           `json:"country"`
	ProfilePicture string           `json:"profile_picture,omitempty"`
	Available      bool             `json:"available"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

var profilePhonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Profile field names reported by MissingProfileFields.
const (
	FieldGender   = "gender"
	FieldPhone    = "phone"
	FieldState    = "state"
	FieldDistrict = "district"
	FieldCity     = "city"
)

// MissingProfileFields lists the fields that keep a profile incomplete, in a
// stable order.
func MissingProfileFields(d *Donor) []string {
	if d == nil {
		return []string{FieldGender, FieldPhone, FieldState, FieldDistrict, FieldCity}
	}
	var missing []string
	if strings.TrimSpace(d.Gender) == "" {
		missing = append(missing, FieldGender)
	}
	if !profilePhonePattern.MatchString(d.Phone) {
		missing = append(missing, FieldPhone)
	}
	if strings.TrimSpace(d.State) == "" {
		missing = append(missing, FieldState)
	}
	if strings.TrimSpace(d.District) == "" {
		missing = append(missing, FieldDistrict)
	}
	if strings.TrimSpace(d.City) == "" {
		missing = append(missing, FieldCity)
	}
	return missing
}

// IsProfileComplete is the completion gate: gender set, a 10-digit phone, and
// state, district and city all present. Any failure means the caller must
// prompt for completion before anything else.
func IsProfileComplete(d *Donor) bool {
	return len(MissingProfileFields(d)) == 0
}

// ProfileUpdate is a partial profile edit; nil fields are left unchanged.
type ProfileUpdate struct {
	FullName       *string
	Phone          *string
	Gender         *string
	DateOfBirth    *domain.Date
	BloodType      *domain.BloodType
	City           *string
	District       *string
	State          *string
	Country        *string
	ProfilePicture *string
}

// Apply copies the set fields onto d and stamps UpdatedAt.
func (u ProfileUpdate) Apply(d *Donor, now time.Time) {
	setString(&d.FullName, u.FullName)
	setString(&d.Phone, u.Phone)
	setString(&d.Gender, u.Gender)
	setString(&d.City, u.City)
	setString(&d.District, u.District)
	setString(&d.State, u.State)
	setString(&d.Country, u.Country)
	setString(&d.ProfilePicture, u.ProfilePicture)
	if u.DateOfBirth != nil {
		dob := *u.DateOfBirth
		d.DateOfBirth = &dob
	}
	if u.BloodType != nil {
		d.BloodType = *u.BloodType
	}
	d.UpdatedAt = now
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// SearchFilter narrows donor search. Zero values match everything.
type SearchFilter struct {
	BloodTypes    []domain.BloodType
	City          string
	State         string
	AvailableOnly bool
	Limit         int
	Offset        int
}
