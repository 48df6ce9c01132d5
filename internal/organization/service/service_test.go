package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	authservice "bloodlink/internal/auth/service"
	"bloodlink/internal/auth/store/revocation"
	userstore "bloodlink/internal/auth/store/user"
	"bloodlink/internal/organization/models"
	orgstore "bloodlink/internal/organization/store"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/tx"
	"bloodlink/pkg/requestcontext"
	"bloodlink/pkg/secrets"
)

type OrganizationServiceSuite struct {
	suite.Suite
	users   *userstore.InMemoryUserStore
	service *Service
	ctx     context.Context
}

func TestOrganizationServiceSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceSuite))
}

func (s *OrganizationServiceSuite) SetupTest() {
	s.users = userstore.New()
	accounts := authservice.New(s.users, nil, revocation.NewInMemoryTRL(nil), secrets.NewHasher(bcrypt.MinCost))
	s.service = New(orgstore.NewInMemoryStore(), accounts, &tx.LockRunner{})
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
}

func (s *OrganizationServiceSuite) command() RegisterCommand {
	return RegisterCommand{
		Name:     "City Blood Bank",
		Kind:     "blood_bank",
		Email:    "bank@example.com",
		Password: "password1!",
		Phone:    "0201234567",
		City:     "Pune",
	}
}

func (s *OrganizationServiceSuite) TestRegister() {
	s.Run("creates an organization account", func() {
		org, err := s.service.Register(s.ctx, s.command())
		s.Require().NoError(err)
		s.Equal(models.KindBloodBank, org.Kind)

		user, err := s.users.FindByID(s.ctx, domain.UserID(org.ID))
		s.Require().NoError(err)
		s.Equal(domain.RoleOrganization, user.Role)

		got, err := s.service.Get(s.ctx, org.ID)
		s.Require().NoError(err)
		s.Equal("City Blood Bank", got.Name)
	})

	s.Run("rejects an unknown kind", func() {
		cmd := s.command()
		cmd.Email = "clinic@example.com"
		cmd.Kind = "clinic"
		_, err := s.service.Register(s.ctx, cmd)
		de, ok := dErrors.As(err)
		s.Require().True(ok)
		s.Contains(de.Fields, "kind")
	})

	s.Run("duplicate email is a conflict", func() {
		_, err := s.service.Register(s.ctx, s.command())
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *OrganizationServiceSuite) TestGetUnknown() {
	_, err := s.service.Get(s.ctx, domain.OrganizationID(uuid.New()))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
