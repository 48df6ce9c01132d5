package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bloodlink/internal/donation/handler/mocks"
	"bloodlink/internal/donation/models"
	"bloodlink/internal/donation/service"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/testutil"
)

type DonationHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	donorID domain.DonorID
}

func TestDonationHandlerSuite(t *testing.T) {
	suite.Run(t, new(DonationHandlerSuite))
}

func (s *DonationHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.RegisterDonorRoutes(s.router)
	h.RegisterOrganizationRoutes(s.router)
	s.donorID = domain.DonorID(uuid.New())
}

func (s *DonationHandlerSuite) record(date string, units float64) *models.DonationRecord {
	d, err := domain.ParseDate(date)
	require.NoError(s.T(), err)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	return &models.DonationRecord{
		ID:        domain.DonationID(uuid.New()),
		DonorID:   s.donorID,
		Date:      d,
		Units:     units,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *DonationHandlerSuite) TestList() {
	s.service.EXPECT().List(gomock.Any(), s.donorID).Return([]*models.DonationRecord{
		s.record("2025-05-01", 1),
		s.record("2025-01-15", 0.5),
	}, nil)

	req := testutil.AsDonor(testutil.NewRequest(s.T(), http.MethodGet, "/donors/me/donations"), s.donorID)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[listResponse](s.T(), rr)
	assert.Equal(s.T(), 2, resp.Count)
	assert.InDelta(s.T(), 1.5, resp.TotalUnits, 1e-9)
	assert.Equal(s.T(), "2025-05-01", resp.Donations[0].Date.String())
}

func (s *DonationHandlerSuite) TestCreate() {
	s.Run("passes the parsed command to the service", func() {
		date, _ := domain.ParseDate("2025-06-01")
		s.service.EXPECT().Create(gomock.Any(), s.donorID, service.CreateCommand{
			Date:  date,
			Units: 1,
			Notes: "morning drive",
		}).Return(s.record("2025-06-01", 1), nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/donors/me/donations", map[string]any{
			"date": "2025-06-01", "units": 1, "notes": "morning drive",
		})
		rr := testutil.DoRequest(s.router, testutil.AsDonor(req, s.donorID))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "date", "2025-06-01")
	})

	s.Run("malformed date is rejected before the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/donors/me/donations", map[string]any{
			"date": "01/06/2025", "units": 1,
		})
		rr := testutil.DoRequest(s.router, testutil.AsDonor(req, s.donorID))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("validation failures surface field messages", func() {
		s.service.EXPECT().Create(gomock.Any(), s.donorID, gomock.Any()).
			Return(nil, dErrors.NewValidation(map[string]string{"units": "units must be greater than 0 and at most 5"}))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/donors/me/donations", map[string]any{
			"date": "2025-06-01", "units": 7,
		})
		rr := testutil.DoRequest(s.router, testutil.AsDonor(req, s.donorID))

		testutil.AssertFieldError(s.T(), rr, "units")
	})
}

func (s *DonationHandlerSuite) TestUpdate() {
	s.Run("sends only the supplied fields", func() {
		rec := s.record("2025-05-01", 2)
		units := 2.0
		s.service.EXPECT().Update(gomock.Any(), s.donorID, rec.ID, models.DonationUpdate{Units: &units}).
			Return(rec, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/donors/me/donations/"+rec.ID.String(), map[string]any{"units": 2})
		rr := testutil.DoRequest(s.router, testutil.AsDonor(req, s.donorID))

		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("someone else's record is not found", func() {
		id := domain.DonationID(uuid.New())
		s.service.EXPECT().Update(gomock.Any(), s.donorID, id, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "donation not found"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/donors/me/donations/"+id.String(), map[string]any{"notes": "x"})
		rr := testutil.DoRequest(s.router, testutil.AsDonor(req, s.donorID))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("invalid id", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/donors/me/donations/not-a-uuid", map[string]any{"notes": "x"})
		rr := testutil.DoRequest(s.router, testutil.AsDonor(req, s.donorID))

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *DonationHandlerSuite) TestDelete() {
	id := domain.DonationID(uuid.New())
	s.service.EXPECT().Delete(gomock.Any(), s.donorID, id).Return(nil)

	req := testutil.NewRequest(s.T(), http.MethodDelete, "/donors/me/donations/"+id.String())
	rr := testutil.DoRequest(s.router, testutil.AsDonor(req, s.donorID))

	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
}

func (s *DonationHandlerSuite) TestVerify() {
	org := domain.OrganizationID(uuid.New())
	rec := s.record("2025-05-01", 1)
	s.service.EXPECT().Verify(gomock.Any(), org, rec.ID).
		Return(nil, dErrors.New(dErrors.CodeConflict, "donation already verified by another organization"))

	req := testutil.NewRequest(s.T(), http.MethodPost, "/organizations/me/donations/"+rec.ID.String()+"/verify")
	rr := testutil.DoRequest(s.router, testutil.AsOrganization(req, org))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *DonationHandlerSuite) TestRecordForDonor() {
	org := domain.OrganizationID(uuid.New())

	s.Run("records against the donor in the path", func() {
		date, _ := domain.ParseDate("2025-06-01")
		rec := s.record("2025-06-01", 1)
		rec.ApplyVerification(org, rec.CreatedAt)
		s.service.EXPECT().RecordForDonor(gomock.Any(), org, s.donorID, service.CreateCommand{Date: date, Units: 1}).
			Return(rec, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/organizations/me/donors/"+s.donorID.String()+"/donations",
			map[string]any{"date": "2025-06-01", "units": 1})
		rr := testutil.DoRequest(s.router, testutil.AsOrganization(req, org))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "verified_by", org.String())
	})

	s.Run("unknown donor", func() {
		s.service.EXPECT().RecordForDonor(gomock.Any(), org, s.donorID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "donor not found"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/organizations/me/donors/"+s.donorID.String()+"/donations",
			map[string]any{"date": "2025-06-01", "units": 1})
		rr := testutil.DoRequest(s.router, testutil.AsOrganization(req, org))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *DonationHandlerSuite) TestOrganizationUpdate() {
	org := domain.OrganizationID(uuid.New())

	s.Run("passes the edit through as the calling organization", func() {
		rec := s.record("2025-05-01", 1)
		notes := "bag 42"
		s.service.EXPECT().UpdateAsOrganization(gomock.Any(), org, rec.ID, models.DonationUpdate{Notes: &notes}).
			Return(rec, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/organizations/me/donations/"+rec.ID.String(), map[string]any{"notes": notes})
		rr := testutil.DoRequest(s.router, testutil.AsOrganization(req, org))

		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("record verified elsewhere is not found", func() {
		id := domain.DonationID(uuid.New())
		s.service.EXPECT().UpdateAsOrganization(gomock.Any(), org, id, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "donation not found"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/organizations/me/donations/"+id.String(), map[string]any{"units": 1})
		rr := testutil.DoRequest(s.router, testutil.AsOrganization(req, org))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}
