// Package validation holds the intake field rules shared by registration and
// request forms. Each rule returns a user-facing error; Collector gathers them
// into a single field-keyed validation error.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^[0-9]{10}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{2,29}$`)
	namePattern     = regexp.MustCompile(`^\p{L}[\p{L} ]*\p{L}$`)
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
	minNameLen     = 2
	maxNameLen     = 50
)

var (
	errEmail         = errors.New("email must look like name@example.com")
	errPhone         = errors.New("phone must be exactly 10 digits")
	errBloodType     = errors.New("blood type is not recognised")
	errUsername      = errors.New("username must start with a letter and contain 3-30 letters, digits or underscores")
	errNameSpace     = errors.New("name must not start with a space")
	errNameChars     = errors.New("name may contain letters and spaces only")
	errNameLength    = errors.New("name must be 2-50 characters")
	errPasswordLen   = errors.New("password must be 8-128 characters")
	errPasswordSpace = errors.New("password must not contain spaces")
)

func Email(s string) error {
	if !emailPattern.MatchString(s) {
		return errEmail
	}
	return nil
}

// Phone accepts exactly ten ASCII digits with no formatting characters.
func Phone(s string) error {
	if !phonePattern.MatchString(s) {
		return errPhone
	}
	return nil
}

func BloodType(s string) error {
	if !domain.BloodType(s).IsValid() {
		return errBloodType
	}
	return nil
}

func Username(s string) error {
	if !usernamePattern.MatchString(s) {
		return errUsername
	}
	return nil
}

// FullName rejects a leading space, then checks the trimmed value.
func FullName(s string) error {
	if strings.HasPrefix(s, " ") {
		return errNameSpace
	}
	trimmed := strings.TrimSpace(s)
	n := utf8.RuneCountInString(trimmed)
	if n < minNameLen || n > maxNameLen {
		return errNameLength
	}
	if !namePattern.MatchString(trimmed) {
		return errNameChars
	}
	return nil
}

// Password is the acceptance rule; strength is advisory only.
func Password(s string) error {
	if strings.ContainsFunc(s, unicode.IsSpace) {
		return errPasswordSpace
	}
	if n := utf8.RuneCountInString(s); n < minPasswordLen || n > maxPasswordLen {
		return errPasswordLen
	}
	return nil
}

// Strength is UI feedback on password composition.
type Strength string

const (
	StrengthEasy   Strength = "Easy"
	StrengthNormal Strength = "Normal"
	StrengthHard   Strength = "Hard"
)

// PasswordStrength counts how many of letters, digits and symbols appear.
// Whitespace short-circuits to Easy with a space-specific message.
func PasswordStrength(s string) (Strength, string) {
	if strings.ContainsFunc(s, unicode.IsSpace) {
		return StrengthEasy, errPasswordSpace.Error()
	}
	var letters, digits, symbols bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters = true
		case unicode.IsDigit(r):
			digits = true
		default:
			symbols = true
		}
	}
	classes := 0
	for _, present := range []bool{letters, digits, symbols} {
		if present {
			classes++
		}
	}
	switch classes {
	case 3:
		return StrengthHard, "strong password"
	case 2:
		return StrengthNormal, "add a letter, digit or symbol to strengthen it"
	default:
		return StrengthEasy, "mix letters, digits and symbols"
	}
}

// Collector accumulates the first failure per field.
type Collector struct {
	fields map[string]string
}

func New() *Collector {
	return &Collector{fields: map[string]string{}}
}

// Check records err against field unless the field already failed.
func (c *Collector) Check(field string, err error) *Collector {
	if err == nil {
		return c
	}
	if _, exists := c.fields[field]; !exists {
		c.fields[field] = err.Error()
	}
	return c
}

// Require records a "required" failure when value is blank.
func (c *Collector) Require(field, value string) *Collector {
	if strings.TrimSpace(value) == "" {
		return c.Check(field, errors.New(field+" is required"))
	}
	return c
}

// Err returns a CodeValidation error when any field failed, nil otherwise.
func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return dErrors.NewValidation(c.fields)
}
