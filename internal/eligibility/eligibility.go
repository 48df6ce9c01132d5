// Package eligibility decides when a donor may donate again.
//
// The rule is a single fixed cooldown: a donor becomes eligible CooldownDays
// after their most recent recorded donation. Whole blood, plasma and platelet
// donations are not distinguished. Computation is pure and never fails; any
// missing or unparseable history degrades to "eligible, no countdown".
package eligibility

import (
	"time"

	"bloodlink/pkg/domain"
)

// CooldownDays is the wait between donations.
const CooldownDays = 90

// Countdown is the remaining wait decomposed into whole units. All fields are
// zero-floored.
type Countdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// IsZero reports whether no time remains.
func (c Countdown) IsZero() bool {
	return c == Countdown{}
}

// Result is the outcome of an eligibility check.
//
// NextEligibleDate and LastDonationDate are nil when there is no usable
// history. Countdown is nil whenever the donor is eligible.
type Result struct {
	IsEligible       bool       `json:"is_eligible"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
	NextEligibleDate *time.Time `json:"next_eligible_date,omitempty"`
	Countdown        *Countdown `json:"countdown,omitempty"`
}

// Compute evaluates eligibility at now from a donor's donation dates.
// Zero dates are treated as unparseable and skipped.
func Compute(dates []domain.Date, now time.Time) Result {
	last, ok := mostRecent(dates)
	if !ok {
		return Result{IsEligible: true}
	}

	lastAt := last.Time()
	next := NextEligibleDate(last)
	res := Result{
		LastDonationDate: &lastAt,
		NextEligibleDate: &next,
	}
	// Boundary is inclusive: eligible at exactly next.
	if !now.Before(next) {
		res.IsEligible = true
		return res
	}
	cd := CountdownUntil(next, now)
	res.Countdown = &cd
	return res
}

// ComputeFromStrings is Compute over raw ISO-8601 date strings, as stored by
// older clients. Strings that fail to parse are ignored.
func ComputeFromStrings(raw []string, now time.Time) Result {
	dates := make([]domain.Date, 0, len(raw))
	for _, s := range raw {
		d, err := domain.ParseDate(s)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return Compute(dates, now)
}

// NextEligibleDate is last + CooldownDays, at midnight UTC.
func NextEligibleDate(last domain.Date) time.Time {
	return last.AddDays(CooldownDays).Time()
}

// CountdownUntil decomposes next-now into days, hours, minutes and seconds
// using millisecond arithmetic. A non-positive difference yields zeros.
func CountdownUntil(next, now time.Time) Countdown {
	ms := next.Sub(now).Milliseconds()
	if ms <= 0 {
		return Countdown{}
	}
	const (
		msPerSecond = int64(1000)
		msPerMinute = 60 * msPerSecond
		msPerHour   = 60 * msPerMinute
		msPerDay    = 24 * msPerHour
	)
	return Countdown{
		Days:    ms / msPerDay,
		Hours:   (ms % msPerDay) / msPerHour,
		Minutes: (ms % msPerHour) / msPerMinute,
		Seconds: (ms % msPerMinute) / msPerSecond,
	}
}

// mostRecent returns the maximum non-zero date. Ties are irrelevant at day granularity.
func mostRecent(dates []domain.Date) (domain.Date, bool) {
	var best domain.Date
	found := false
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if !found || d.After(best) {
			best = d
			found = true
		}
	}
	return best, found
}
