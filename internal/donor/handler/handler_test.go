package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"bloodlink/internal/donor/handler/mocks"
	"bloodlink/internal/donor/models"
	"bloodlink/internal/donor/service"
	"bloodlink/internal/eligibility"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/testutil"
)

type DonorHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	donorID domain.DonorID
}

func TestDonorHandlerSuite(t *testing.T) {
	suite.Run(t, new(DonorHandlerSuite))
}

func (s *DonorHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.RegisterPublic(s.router)
	h.RegisterDonorRoutes(s.router)
	h.RegisterStreamRoutes(s.router)
	h.RegisterSearchRoutes(s.router)
	s.donorID = domain.DonorID(uuid.New())
}

func (s *DonorHandlerSuite) TestRegister() {
	s.Run("maps the form onto the command", func() {
		s.service.EXPECT().Register(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, cmd service.RegisterCommand) (*models.Donor, error) {
				s.Equal("ana@example.com", cmd.Email)
				s.Equal("O+", cmd.BloodType)
				s.Equal("Pune", cmd.City)
				return &models.Donor{ID: s.donorID, Email: cmd.Email, BloodType: domain.BloodTypeOPos}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/donors/register", map[string]string{
			"email": "ana@example.com", "password": "password1!", "full_name": "Ana Rao",
			"phone": "9876543210", "blood_type": "O+", "city": "Pune",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "blood_type", "O+")
	})

	s.Run("duplicate email is a conflict", func() {
		s.service.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "email is already registered"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/donors/register", map[string]string{"email": "ana@example.com"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})
}

func (s *DonorHandlerSuite) TestDashboard() {
	next := time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC)
	s.service.EXPECT().Dashboard(gomock.Any(), s.donorID).Return(&service.DashboardView{
		Donor: &models.Donor{ID: s.donorID},
		Eligibility: eligibility.Result{
			NextEligibleDate: &next,
			Countdown:        &eligibility.Countdown{Days: 59, Hours: 12},
		},
		MissingFields: []string{"gender"},
	}, nil)

	req := testutil.AsDonor(testutil.NewRequest(s.T(), http.MethodGet, "/donors/me/dashboard"), s.donorID)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	body := rr.Body.String()
	assert.Contains(s.T(), body, `"profile_complete":false`)
	assert.Contains(s.T(), body, `"days":59`)
	assert.Contains(s.T(), body, `"missing_fields":["gender"]`)
}

func (s *DonorHandlerSuite) TestUpdateMe() {
	s.service.EXPECT().UpdateProfile(gomock.Any(), s.donorID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.DonorID, upd models.ProfileUpdate) (*models.Donor, error) {
			s.Require().NotNil(upd.Phone)
			s.Equal("9876543210", *upd.Phone)
			s.Nil(upd.City)
			return &models.Donor{ID: s.donorID, Phone: *upd.Phone}, nil
		})

	req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/donors/me", map[string]string{"phone": "9876543210"})
	rr := testutil.DoRequest(s.router, testutil.AsDonor(req, s.donorID))

	testutil.AssertStatusOK(s.T(), rr)
}

func (s *DonorHandlerSuite) TestEligibilityStream() {
	s.Run("writes one event per frame", func() {
		s.service.EXPECT().StreamEligibility(gomock.Any(), s.donorID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ domain.DonorID, emit func(service.CountdownFrame) error) error {
				if err := emit(service.CountdownFrame{Countdown: eligibility.Countdown{Seconds: 1}}); err != nil {
					return err
				}
				return emit(service.CountdownFrame{IsEligible: true})
			})

		req := testutil.AsDonor(testutil.NewRequest(s.T(), http.MethodGet, "/donors/me/eligibility/stream"), s.donorID)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		assert.Equal(s.T(), "text/event-stream", rr.Header().Get("Content-Type"))
		body := rr.Body.String()
		assert.Equal(s.T(), 2, strings.Count(body, "event: countdown\n"))
		assert.Contains(s.T(), body, `data: {"days":0,"hours":0,"minutes":0,"seconds":1,"is_eligible":false}`)
		assert.Contains(s.T(), body, `"is_eligible":true`)
	})

	s.Run("errors before the first frame are plain JSON", func() {
		s.service.EXPECT().StreamEligibility(gomock.Any(), s.donorID, gomock.Any()).
			Return(dErrors.New(dErrors.CodeNotFound, "donor not found"))

		req := testutil.AsDonor(testutil.NewRequest(s.T(), http.MethodGet, "/donors/me/eligibility/stream"), s.donorID)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})
}

func (s *DonorHandlerSuite) TestSearch() {
	s.Run("parses repeated and comma separated blood types", func() {
		s.service.EXPECT().Search(gomock.Any(), service.SearchQuery{
			BloodTypes:    []string{"O+", "O-", "A+"},
			City:          "Pune",
			AvailableOnly: true,
			Limit:         10,
		}).Return([]*models.Donor{{ID: s.donorID}}, nil)

		req := testutil.NewRequest(s.T(), http.MethodGet,
			"/donors/search?blood_type=O%2B,O-&blood_type=A%2B&city=Pune&available=true&limit=10")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "count", float64(1))
	})

	s.Run("rejects a malformed available flag", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/donors/search?available=maybe")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}
