package models

import (
	"fmt"
	"strings"
	"time"

	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
)

// Submission is a member of the public asking for blood.
type Submission struct {
	ID        domain.SubmissionID `json:"id"`
	FullName  string              `json:"full_name"`
	Email     string              `json:"email"`
	Phone     string              `json:"phone"`
	BloodType domain.BloodType    `json:"blood_type"`
	Units     int                 `json:"units"`
	City      string              `json:"city"`
	Note      string              `json:"note,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// CooldownKeys are the identities a submission is throttled under. Emails
// compare case-insensitively.
func (s *Submission) CooldownKeys() []string {
	return CooldownKeys(s.Email, s.Phone)
}

func CooldownKeys(email, phone string) []string {
	return []string{
		"email:" + strings.ToLower(strings.TrimSpace(email)),
		"phone:" + strings.TrimSpace(phone),
	}
}

// DefaultCooldown is the window after an accepted submission during which
// the same email or phone is turned away.
const DefaultCooldown = 30 * time.Second

// RetryAfter reports whether a submission at now falls inside the cooldown
// window that started at last, and if so how many whole seconds to wait.
// The hint is window minus whole seconds elapsed, clamped to [1, window].
func RetryAfter(last, now time.Time, window time.Duration) (int, bool) {
	elapsed := now.Sub(last)
	if elapsed >= window {
		return 0, false
	}
	limit := int(window / time.Second)
	if limit < 1 {
		limit = 1
	}
	wait := limit - int(elapsed/time.Second)
	return max(1, min(limit, wait)), true
}

// CooldownError rejects a submission that arrived too soon.
type CooldownError struct {
	RetryAfter int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("a request from this email or phone was just received; retry in %d seconds", e.RetryAfter)
}

func (e *CooldownError) Unwrap() error {
	return dErrors.New(dErrors.CodeTooManyRequests, e.Error())
}
