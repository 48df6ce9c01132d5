package models

import (
	"strings"
	"time"

	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
)

// Urgency ranks an emergency request.
type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyHigh     Urgency = "High"
	UrgencyMedium   Urgency = "Medium"
)

func ParseUrgency(s string) (Urgency, error) {
	switch u := Urgency(s); u {
	case UrgencyCritical, UrgencyHigh, UrgencyMedium:
		return u, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "urgency must be Critical, High or Medium")
	}
}

// Status of an emergency request. Closed is terminal.
type Status string

const (
	StatusActive Status = "Active"
	StatusClosed Status = "Closed"
)

// CanTransitionTo allows Active -> Closed only.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusActive && next == StatusClosed
}

// EmergencyRequest is an organization's urgent call for a blood group.
type EmergencyRequest struct {
	ID             domain.EmergencyID    `json:"id"`
	OrganizationID domain.OrganizationID `json:"organization_id"`
	BloodType      domain.BloodType      `json:"blood_type"`
	UnitsRequired  int                   `json:"units_required"`
	Urgency        Urgency               `json:"urgency"`
	Description    string                `json:"description"`
	Status         Status                `json:"status"`
	CreatedAt      time.Time             `json:"created_at"`
	ClosedAt       *time.Time            `json:"closed_at,omitempty"`
}

func NewEmergencyRequest(id domain.EmergencyID, org domain.OrganizationID, bt domain.BloodType, units int, urgency Urgency, description string, now time.Time) (*EmergencyRequest, error) {
	if units <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "units required must be positive")
	}
	return &EmergencyRequest{
		ID:             id,
		OrganizationID: org,
		BloodType:      bt,
		UnitsRequired:  units,
		Urgency:        urgency,
		Description:    strings.TrimSpace(description),
		Status:         StatusActive,
		CreatedAt:      now,
	}, nil
}

func (e *EmergencyRequest) IsActive() bool {
	return e.Status == StatusActive
}

// CanClose validates the Active -> Closed transition.
// Use with ApplyClose in Execute callbacks.
func (e *EmergencyRequest) CanClose() error {
	if !e.Status.CanTransitionTo(StatusClosed) {
		return dErrors.New(dErrors.CodeInvariantViolation, "emergency request is already closed")
	}
	return nil
}

func (e *EmergencyRequest) ApplyClose(now time.Time) {
	e.Status = StatusClosed
	e.ClosedAt = &now
}

// Created is published when a new request opens.
type Created struct {
	ID             domain.EmergencyID    `json:"id"`
	OrganizationID domain.OrganizationID `json:"organization_id"`
	BloodType      domain.BloodType      `json:"blood_type"`
	UnitsRequired  int                   `json:"units_required"`
	Urgency        Urgency               `json:"urgency"`
	CreatedAt      time.Time             `json:"created_at"`
}
