package adapters

import (
	"context"

	"bloodlink/internal/admin/models"
	donationModels "bloodlink/internal/donation/models"
	"bloodlink/pkg/domain"
)

// DonationStore is the interface that donation stores implement.
type DonationStore interface {
	ListByDonor(ctx context.Context, donorID domain.DonorID) ([]*donationModels.DonationRecord, error)
	DeleteByDonor(ctx context.Context, donorID domain.DonorID) error
	TotalUnits(ctx context.Context) (float64, error)
}

// DonationStoreAdapter adapts a donation store to admin's DonationLedger interface.
type DonationStoreAdapter struct {
	store DonationStore
}

func NewDonationStoreAdapter(store DonationStore) *DonationStoreAdapter {
	return &DonationStoreAdapter{store: store}
}

// Totals summarises a donor's records. Stores return most recent first.
func (a *DonationStoreAdapter) Totals(ctx context.Context, donorID domain.DonorID) (models.DonationTotals, error) {
	records, err := a.store.ListByDonor(ctx, donorID)
	if err != nil {
		return models.DonationTotals{}, err
	}
	totals := models.DonationTotals{Count: len(records)}
	for _, r := range records {
		totals.TotalUnits += r.Units
		if totals.LastDonation == nil || r.Date.After(*totals.LastDonation) {
			date := r.Date
			totals.LastDonation = &date
		}
	}
	return totals, nil
}

func (a *DonationStoreAdapter) DeleteByDonor(ctx context.Context, donorID domain.DonorID) error {
	return a.store.DeleteByDonor(ctx, donorID)
}

func (a *DonationStoreAdapter) TotalUnits(ctx context.Context) (float64, error) {
	return a.store.TotalUnits(ctx)
}
