package models

import (
	"time"

	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
)

// Kind distinguishes hospitals from blood banks.
type Kind string

const (
	KindHospital  Kind = "hospital"
	KindBloodBank Kind = "blood_bank"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindHospital, KindBloodBank:
		return Kind(s), nil
	case "":
		return "", dErrors.New(dErrors.CodeInvalidInput, "kind is required")
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "kind must be hospital or blood_bank")
	}
}

// Organization is a hospital or blood bank that keeps inventory and raises
// emergency requests. ID equals the owning account's user ID.
type Organization struct {
	ID        domain.OrganizationID `json:"id"`
	Name      string                `json:"name"`
	Kind      Kind                  `json:"kind"`
	Email     string                `json:"email"`
	Phone     string                `json:"phone"`
	City      string                `json:"city"`
	State     string                `json:"state"`
	CreatedAt time.Time             `json:"created_at"`
}
