package adapters

import (
	"context"

	"bloodlink/internal/admin/models"
	donorModels "bloodlink/internal/donor/models"
	"bloodlink/pkg/domain"
)

// DonorStore is the interface that donor stores implement.
type DonorStore interface {
	List(ctx context.Context, limit, offset int) ([]*donorModels.Donor, error)
	Count(ctx context.Context) (int, error)
	CountAvailable(ctx context.Context) (int, error)
	Delete(ctx context.Context, id domain.DonorID) error
}

// DonorStoreAdapter adapts a donor store to admin's DonorDirectory interface.
type DonorStoreAdapter struct {
	store DonorStore
}

func NewDonorStoreAdapter(store DonorStore) *DonorStoreAdapter {
	return &DonorStoreAdapter{store: store}
}

// List returns a page of donors mapped to admin summaries. Donation totals
// are left zero for the caller to fill in.
func (a *DonorStoreAdapter) List(ctx context.Context, limit, offset int) ([]*models.DonorSummary, error) {
	donors, err := a.store.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	result := make([]*models.DonorSummary, len(donors))
	for i, d := range donors {
		result[i] = mapDonor(d)
	}
	return result, nil
}

func (a *DonorStoreAdapter) Count(ctx context.Context) (int, error) {
	return a.store.Count(ctx)
}

func (a *DonorStoreAdapter) CountAvailable(ctx context.Context) (int, error) {
	return a.store.CountAvailable(ctx)
}

func (a *DonorStoreAdapter) Delete(ctx context.Context, id domain.DonorID) error {
	return a.store.Delete(ctx, id)
}

func mapDonor(d *donorModels.Donor) *models.DonorSummary {
	return &models.DonorSummary{
		ID:           d.ID,
		FullName:     d.FullName,
		Email:        d.Email,
		Phone:        d.Phone,
		BloodType:    d.BloodType,
		City:         d.City,
		State:        d.State,
		Available:    d.Available,
		RegisteredAt: d.CreatedAt,
	}
}
