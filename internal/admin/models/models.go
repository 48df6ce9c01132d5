// Package models holds the back-office views of donors and platform totals.
package models

import (
	"time"

	"bloodlink/pkg/domain"
)

// Stats are platform-wide totals for the back office.
type Stats struct {
	Donors            int     `json:"donors"`
	AvailableDonors   int     `json:"available_donors"`
	Organizations     int     `json:"organizations"`
	ActiveEmergencies int     `json:"active_emergencies"`
	SeekerSubmissions int     `json:"seeker_submissions"`
	TotalUnitsDonated float64 `json:"total_units_donated"`
}

// DonorSummary is one row of the admin donor listing and export.
type DonorSummary struct {
	ID            domain.DonorID   `json:"id"`
	FullName      string           `json:"full_name"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	BloodType     domain.BloodType `json:"blood_type"`
	City          string           `json:"city"`
	State         string           `json:"state"`
	Available     bool             `json:"available"`
	DonationCount int              `json:"donation_count"`
	TotalUnits    float64          `json:"total_units"`
	LastDonation  *domain.Date     `json:"last_donation,omitempty"`
	RegisteredAt  time.Time        `json:"registered_at"`
}

// DonationTotals summarises one donor's history.
type DonationTotals struct {
	Count        int
	TotalUnits   float64
	LastDonation *domain.Date
}

// Apply copies totals onto the summary.
func (s *DonorSummary) Apply(t DonationTotals) {
	s.DonationCount = t.Count
	s.TotalUnits = t.TotalUnits
	s.LastDonation = t.LastDonation
}

// DonorPage is a page of donors plus the unpaged total.
type DonorPage struct {
	Donors []*DonorSummary `json:"donors"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
