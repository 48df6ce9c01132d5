package models

import (
	"math"
	"time"

	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
)

const (
	// DefaultMinThreshold is assigned to a row when it is first created.
	DefaultMinThreshold = 5
	// MaxUnits bounds stock counts, thresholds and deltas to the range of the
	// units and min_threshold columns.
	MaxUnits = math.MaxInt32
)

// InventoryRow is an organization's stock of one blood group.
//
// Invariants:
//   - Units >= 0 at all times
//   - 0 <= Units, MinThreshold <= MaxUnits
//   - MinThreshold of 0 disables low-stock alerts for the row
//   - One row per (OrganizationID, BloodType), created on first write
type InventoryRow struct {
	OrganizationID domain.OrganizationID `json:"organization_id"`
	BloodType      domain.BloodType      `json:"blood_type"`
	Units          int                   `json:"units"`
	MinThreshold   int                   `json:"min_threshold"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// NewInventoryRow returns an empty row with the default threshold.
func NewInventoryRow(org domain.OrganizationID, bt domain.BloodType, now time.Time) *InventoryRow {
	return &InventoryRow{
		OrganizationID: org,
		BloodType:      bt,
		MinThreshold:   DefaultMinThreshold,
		UpdatedAt:      now,
	}
}

// IsLow reports units strictly below the threshold.
func (r *InventoryRow) IsLow() bool {
	return r.Units < r.MinThreshold
}

// SetUnits replaces the count. Stock updates are absolute, not deltas.
func (r *InventoryRow) SetUnits(units int, now time.Time) error {
	if units < 0 || units > MaxUnits {
		return dErrors.New(dErrors.CodeInvalidInput, "units must be between 0 and 2147483647")
	}
	r.Units = units
	r.UpdatedAt = now
	return nil
}

// Adjust applies a delta, saturating at zero and MaxUnits, then writes the
// absolute result.
func (r *InventoryRow) Adjust(delta int, now time.Time) error {
	if delta < -MaxUnits || delta > MaxUnits {
		return dErrors.New(dErrors.CodeInvalidInput, "delta must be between -2147483647 and 2147483647")
	}
	next := int64(r.Units) + int64(delta)
	r.Units = int(min(max(next, 0), MaxUnits))
	r.UpdatedAt = now
	return nil
}

// SetThreshold replaces the minimum threshold.
func (r *InventoryRow) SetThreshold(threshold int, now time.Time) error {
	if threshold < 0 || threshold > MaxUnits {
		return dErrors.New(dErrors.CodeInvalidInput, "threshold must be between 0 and 2147483647")
	}
	r.MinThreshold = threshold
	r.UpdatedAt = now
	return nil
}

// LowStock returns the rows whose units are strictly below their threshold.
// Order follows the input. The result is recomputed on every call; there is no
// hysteresis, so a row hovering at its threshold may enter and leave the list.
func LowStock(rows []*InventoryRow) []*InventoryRow {
	var low []*InventoryRow
	for _, r := range rows {
		if r != nil && r.IsLow() {
			low = append(low, r)
		}
	}
	return low
}
