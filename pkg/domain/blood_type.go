package domain

import dErrors "bloodlink/pkg/domain-errors"

// BloodType is a member of the fixed blood group enumeration. Values are
// persisted as their display strings to stay compatible with stored data.
//
// Usage: construct via ParseBloodType at trust boundaries; direct casting
// bypasses validation.
type BloodType string

const (
	BloodTypeAPos   BloodType = "A+"
	BloodTypeANeg   BloodType = "A-"
	BloodTypeA1Pos  BloodType = "A1+"
	BloodTypeA1Neg  BloodType = "A1-"
	BloodTypeA1BPos BloodType = "A1B+"
	BloodTypeA1BNeg BloodType = "A1B-"
	BloodTypeA2Pos  BloodType = "A2+"
	BloodTypeA2Neg  BloodType = "A2-"
	BloodTypeA2BPos BloodType = "A2B+"
	BloodTypeA2BNeg BloodType = "A2B-"
	BloodTypeABPos  BloodType = "AB+"
	BloodTypeABNeg  BloodType = "AB-"
	BloodTypeBPos   BloodType = "B+"
	BloodTypeBNeg   BloodType = "B-"
	BloodTypeBombay BloodType = "Bombay Blood Group"
	BloodTypeINRA   BloodType = "INRA"
	BloodTypeOPos   BloodType = "O+"
	BloodTypeONeg   BloodType = "O-"
)

// allBloodTypes keeps the enumeration order used for listings and exports.
var allBloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeA1Pos, BloodTypeA1Neg,
	BloodTypeA1BPos, BloodTypeA1BNeg,
	BloodTypeA2Pos, BloodTypeA2Neg,
	BloodTypeA2BPos, BloodTypeA2BNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeBombay, BloodTypeINRA,
	BloodTypeOPos, BloodTypeONeg,
}

var validBloodTypes = func() map[BloodType]bool {
	m := make(map[BloodType]bool, len(allBloodTypes))
	for _, bt := range allBloodTypes {
		m[bt] = true
	}
	return m
}()

// ParseBloodType validates external input against the enumeration.
// Matching is exact: "a+" is not "A+".
func ParseBloodType(s string) (BloodType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "blood type is required")
	}
	bt := BloodType(s)
	if !bt.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid blood type")
	}
	return bt, nil
}

func (b BloodType) IsValid() bool {
	return validBloodTypes[b]
}

func (b BloodType) String() string {
	return string(b)
}

// BloodTypes returns the enumeration in canonical order.
func BloodTypes() []BloodType {
	out := make([]BloodType, len(allBloodTypes))
	copy(out, allBloodTypes)
	return out
}
