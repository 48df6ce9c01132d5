package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "bloodlink/pkg/domain-errors"
)

func TestEmail(t *testing.T) {
	for _, ok := range []string{"asha@example.com", "a.b+c@mail.co.in"} {
		assert.NoError(t, Email(ok), ok)
	}
	for _, bad := range []string{"", "asha", "asha@example", "@example.com", "as ha@example.com"} {
		assert.Error(t, Email(bad), bad)
	}
}

func TestPhone(t *testing.T) {
	assert.NoError(t, Phone("9876543210"))
	for _, bad := range []string{"987654321", "98765432100", "98765-43210", "+919876543210", "98765 4321", "९८७६५४३२१०"} {
		assert.Error(t, Phone(bad), bad)
	}
}

func TestBloodType(t *testing.T) {
	assert.NoError(t, BloodType("Bombay Blood Group"))
	assert.NoError(t, BloodType("A1B-"))
	assert.Error(t, BloodType("C+"))
}

func TestUsername(t *testing.T) {
	assert.NoError(t, Username("donor_01"))
	assert.NoError(t, Username("abc"))
	assert.NoError(t, Username("a"+strings.Repeat("b", 29)))
	for _, bad := range []string{"ab", "1donor", "_donor", "donor-1", "a" + strings.Repeat("b", 30)} {
		assert.Error(t, Username(bad), bad)
	}
}

func TestFullName(t *testing.T) {
	assert.NoError(t, FullName("Asha Rao"))
	assert.NoError(t, FullName("Al"))
	assert.NoError(t, FullName("Asha Rao "))
	assert.Equal(t, errNameSpace, FullName(" Asha"))
	assert.Equal(t, errNameLength, FullName("A"))
	assert.Equal(t, errNameLength, FullName(strings.Repeat("a", 51)))
	assert.Equal(t, errNameChars, FullName("Asha R4o"))
	assert.Equal(t, errNameChars, FullName("Asha-Rao"))
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("abc123!x"))
	assert.Equal(t, errPasswordLen, Password("abc123!"))
	assert.Equal(t, errPasswordLen, Password(strings.Repeat("a", 129)))
	assert.Equal(t, errPasswordSpace, Password("abc 12345"))
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     Strength
	}{
		{"abc123!", StrengthHard},
		{"abc123", StrengthNormal},
		{"abcdef", StrengthEasy},
		{"123456", StrengthEasy},
		{"", StrengthEasy},
	}
	for _, tt := range tests {
		got, _ := PasswordStrength(tt.password)
		assert.Equal(t, tt.want, got, tt.password)
	}

	got, msg := PasswordStrength("abc 123")
	assert.Equal(t, StrengthEasy, got)
	assert.Equal(t, "password must not contain spaces", msg)
}

func TestCollector(t *testing.T) {
	t.Run("no failures", func(t *testing.T) {
		err := New().Check("email", Email("asha@example.com")).Err()
		assert.NoError(t, err)
	})

	t.Run("keeps first failure per field", func(t *testing.T) {
		err := New().
			Require("phone", "").
			Check("phone", Phone("")).
			Check("email", Email("nope")).
			Err()
		require.Error(t, err)

		de, ok := dErrors.As(err)
		require.True(t, ok)
		assert.Equal(t, dErrors.CodeValidation, de.Code)
		assert.Equal(t, "phone is required", de.Fields["phone"])
		assert.Equal(t, errEmail.Error(), de.Fields["email"])
	})
}
