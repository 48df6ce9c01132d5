package domain

import dErrors "bloodlink/pkg/domain-errors"

// Role decides which surface an account may use.
type Role string

const (
	RoleDonor        Role = "donor"
	RoleOrganization Role = "organization"
	RoleAdmin        Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleDonor, RoleOrganization, RoleAdmin:
		return r, nil
	case "":
		return "", dErrors.New(dErrors.CodeInvalidInput, "role is required")
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
}

func (r Role) String() string {
	return string(r)
}
