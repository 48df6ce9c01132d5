package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
)

func TestEmergencyLifecycle(t *testing.T) {
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	req, err := NewEmergencyRequest(domain.EmergencyID(uuid.New()), domain.OrganizationID(uuid.New()),
		domain.BloodTypeONeg, 3, UrgencyCritical, " trauma ward ", now)
	require.NoError(t, err)
	assert.True(t, req.IsActive())
	assert.Equal(t, "trauma ward", req.Description)

	require.NoError(t, req.CanClose())
	req.ApplyClose(now.Add(time.Hour))
	assert.Equal(t, StatusClosed, req.Status)
	require.NotNil(t, req.ClosedAt)

	err = req.CanClose()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation), "closed is terminal")
	assert.False(t, StatusClosed.CanTransitionTo(StatusActive))
}

func TestNewEmergencyRequestRejectsZeroUnits(t *testing.T) {
	_, err := NewEmergencyRequest(domain.EmergencyID(uuid.New()), domain.OrganizationID(uuid.New()),
		domain.BloodTypeAPos, 0, UrgencyHigh, "", time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestParseUrgency(t *testing.T) {
	for _, ok := range []string{"Critical", "High", "Medium"} {
		_, err := ParseUrgency(ok)
		assert.NoError(t, err)
	}
	_, err := ParseUrgency("Low")
	assert.Error(t, err)
}
