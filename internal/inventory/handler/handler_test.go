package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bloodlink/internal/inventory/handler/mocks"
	"bloodlink/internal/inventory/models"
	"bloodlink/internal/inventory/service"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/testutil"
)

type InventoryHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	org     domain.OrganizationID
}

func TestInventoryHandlerSuite(t *testing.T) {
	suite.Run(t, new(InventoryHandlerSuite))
}

func (s *InventoryHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.RegisterOrganizationRoutes(s.router)
	s.org = domain.OrganizationID(uuid.New())
}

func (s *InventoryHandlerSuite) TestList() {
	low := &models.InventoryRow{OrganizationID: s.org, BloodType: domain.BloodTypeAPos, Units: 1, MinThreshold: 5}
	s.service.EXPECT().List(gomock.Any(), s.org).Return(&service.View{
		Rows:     []*models.InventoryRow{low},
		LowStock: []*models.InventoryRow{low},
	}, nil)

	req := testutil.AsOrganization(testutil.NewRequest(s.T(), http.MethodGet, "/organizations/me/inventory"), s.org)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[service.View](s.T(), rr)
	s.Len(resp.LowStock, 1)
}

func (s *InventoryHandlerSuite) TestSetUnitsUnescapesBloodType() {
	s.service.EXPECT().SetUnits(gomock.Any(), s.org, "AB+", 7).
		Return(&models.InventoryRow{OrganizationID: s.org, BloodType: domain.BloodTypeABPos, Units: 7}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/organizations/me/inventory/AB%2B", map[string]int{"units": 7})
	rr := testutil.DoRequest(s.router, testutil.AsOrganization(req, s.org))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "blood_type", "AB+")
}

func (s *InventoryHandlerSuite) TestAdjust() {
	s.Run("passes negative deltas through", func() {
		s.service.EXPECT().Adjust(gomock.Any(), s.org, "O-", -1).
			Return(&models.InventoryRow{OrganizationID: s.org, BloodType: domain.BloodTypeONeg}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/organizations/me/inventory/O-/adjust", map[string]int{"delta": -1})
		rr := testutil.DoRequest(s.router, testutil.AsOrganization(req, s.org))

		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("out of range delta is a client error", func() {
		s.service.EXPECT().Adjust(gomock.Any(), s.org, "O-", models.MaxUnits+1).
			Return(nil, dErrors.New(dErrors.CodeInvalidInput, "delta out of range"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/organizations/me/inventory/O-/adjust", map[string]int{"delta": models.MaxUnits + 1})
		rr := testutil.DoRequest(s.router, testutil.AsOrganization(req, s.org))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})

	s.Run("missing delta", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/organizations/me/inventory/O-/adjust", map[string]int{})
		rr := testutil.DoRequest(s.router, testutil.AsOrganization(req, s.org))

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *InventoryHandlerSuite) TestAlerts() {
	s.service.EXPECT().Alerts(gomock.Any(), s.org).Return([]*models.InventoryRow{}, nil)

	req := testutil.AsOrganization(testutil.NewRequest(s.T(), http.MethodGet, "/organizations/me/inventory/alerts"), s.org)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "count", float64(0))
}
