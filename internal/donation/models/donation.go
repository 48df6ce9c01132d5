package models

import (
	"strings"
	"time"

	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/validation"
)

const (
	// MaxUnits bounds a single self-reported donation.
	MaxUnits = 5.0
	// maxZoneLead is the furthest any civil time zone runs ahead of UTC. A date
	// is "in the future" only once it is in the future everywhere.
	maxZoneLead = 14 * time.Hour
)

// Vitals are optional clinical readings taken at donation time.
type Vitals struct {
	HemoglobinLevel *float64 `json:"hemoglobin_level,omitempty"`
	BloodPressure   string   `json:"blood_pressure,omitempty"`
	Pulse           *int     `json:"pulse,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	Weight          *float64 `json:"weight,omitempty"`
}

// DonationRecord is one completed donation.
//
// Invariants:
//   - Units > 0 and <= MaxUnits
//   - Date is set and not in the future when created or edited
//   - VerifiedBy, when set, names the organization that confirmed the record
type DonationRecord struct {
	ID         domain.DonationID      `json:"id"`
	DonorID    domain.DonorID         `json:"donor_id"`
	Date       domain.Date            `json:"date"`
	Units      float64                `json:"units"`
	Notes      string                 `json:"notes,omitempty"`
	Vitals     *Vitals                `json:"vitals,omitempty"`
	VerifiedBy *domain.OrganizationID `json:"verified_by,omitempty"`
	VerifiedAt *time.Time             `json:"verified_at,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// NewDonationRecord validates and constructs a record.
func NewDonationRecord(id domain.DonationID, donorID domain.DonorID, date domain.Date, units float64, notes string, vitals *Vitals, now time.Time) (*DonationRecord, error) {
	if err := validateFields(date, units, now); err != nil {
		return nil, err
	}
	return &DonationRecord{
		ID:        id,
		DonorID:   donorID,
		Date:      date,
		Units:     units,
		Notes:     strings.TrimSpace(notes),
		Vitals:    vitals,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsVerified reports whether an organization has confirmed the record.
func (r *DonationRecord) IsVerified() bool {
	return r.VerifiedBy != nil
}

// ApplyVerification marks the record verified by org.
func (r *DonationRecord) ApplyVerification(org domain.OrganizationID, now time.Time) {
	r.VerifiedBy = &org
	r.VerifiedAt = &now
	r.UpdatedAt = now
}

// ClearVerification drops a previous confirmation.
func (r *DonationRecord) ClearVerification() {
	r.VerifiedBy = nil
	r.VerifiedAt = nil
}

// DonationUpdate is a partial edit; nil fields are left unchanged.
type DonationUpdate struct {
	Date   *domain.Date
	Units  *float64
	Notes  *string
	Vitals *Vitals
}

// IsEmpty reports whether the update changes nothing.
func (u DonationUpdate) IsEmpty() bool {
	return u.Date == nil && u.Units == nil && u.Notes == nil && u.Vitals == nil
}

// ChangesFacts reports whether u alters the date or units of r.
func (u DonationUpdate) ChangesFacts(r *DonationRecord) bool {
	return (u.Date != nil && !u.Date.Equal(r.Date)) || (u.Units != nil && *u.Units != r.Units)
}

// Validate checks the merged result of applying u to r without mutating r.
func (u DonationUpdate) Validate(r *DonationRecord, now time.Time) error {
	date, units := r.Date, r.Units
	if u.Date != nil {
		date = *u.Date
	}
	if u.Units != nil {
		units = *u.Units
	}
	return validateFields(date, units, now)
}

// Apply copies set fields onto r. Call Validate first.
func (u DonationUpdate) Apply(r *DonationRecord, now time.Time) {
	if u.Date != nil {
		r.Date = *u.Date
	}
	if u.Units != nil {
		r.Units = *u.Units
	}
	if u.Notes != nil {
		r.Notes = strings.TrimSpace(*u.Notes)
	}
	if u.Vitals != nil {
		r.Vitals = u.Vitals
	}
	r.UpdatedAt = now
}

// LatestAllowedDate is the last calendar date that is not in the future in
// any time zone at instant now.
func LatestAllowedDate(now time.Time) domain.Date {
	return domain.DateOf(now.UTC().Add(maxZoneLead))
}

func validateFields(date domain.Date, units float64, now time.Time) error {
	v := validation.New()
	switch {
	case date.IsZero():
		v.Require("date", "")
	case date.After(LatestAllowedDate(now)):
		v.Check("date", errFutureDate)
	}
	if units <= 0 || units > MaxUnits {
		v.Check("units", errUnits)
	}
	return v.Err()
}

// Dates extracts donation dates for eligibility computation.
func Dates(records []*DonationRecord) []domain.Date {
	out := make([]domain.Date, 0, len(records))
	for _, r := range records {
		out = append(out, r.Date)
	}
	return out
}

// TotalUnits sums units across records.
func TotalUnits(records []*DonationRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.Units
	}
	return total
}
