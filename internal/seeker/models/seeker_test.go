package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	dErrors "bloodlink/pkg/domain-errors"
)

func TestRetryAfter(t *testing.T) {
	t0 := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		now       time.Time
		wantWait  int
		wantBlock bool
	}{
		{"same instant", t0, 30, true},
		{"ten seconds later", t0.Add(10 * time.Second), 20, true},
		{"partial seconds round toward waiting longer", t0.Add(10*time.Second + 900*time.Millisecond), 20, true},
		{"last second floors at one", t0.Add(29*time.Second + 999*time.Millisecond), 1, true},
		{"window boundary accepts", t0.Add(30 * time.Second), 0, false},
		{"thirty five seconds later", t0.Add(35 * time.Second), 0, false},
		{"clock skew caps at window", t0.Add(-5 * time.Second), 30, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wait, blocked := RetryAfter(t0, tt.now, DefaultCooldown)
			assert.Equal(t, tt.wantBlock, blocked)
			assert.Equal(t, tt.wantWait, wait)
		})
	}
}

func TestCooldownKeysNormaliseEmail(t *testing.T) {
	assert.Equal(t, []string{"email:sam@example.com", "phone:9876543210"}, CooldownKeys(" Sam@Example.com", "9876543210"))
}

func TestCooldownErrorCarriesCode(t *testing.T) {
	var err error = &CooldownError{RetryAfter: 12}
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTooManyRequests))

	var ce *CooldownError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, 12, ce.RetryAfter)
}
