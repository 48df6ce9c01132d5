package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	authmodels "bloodlink/internal/auth/models"
	authservice "bloodlink/internal/auth/service"
	"bloodlink/internal/organization/models"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/tx"
	"bloodlink/pkg/platform/validation"
	"bloodlink/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, org *models.Organization) error
	FindByID(ctx context.Context, id domain.OrganizationID) (*models.Organization, error)
}

// AccountCreator creates the login account behind an organization.
type AccountCreator interface {
	CreateAccount(ctx context.Context, in authservice.AccountInput, role domain.Role) (*authmodels.User, error)
}

// Service registers and loads organizations.
type Service struct {
	store    Store
	accounts AccountCreator
	tx       tx.Runner
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, accounts AccountCreator, runner tx.Runner, opts ...Option) *Service {
	s := &Service{store: store, accounts: accounts, tx: runner, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterCommand is the organization sign-up form.
type RegisterCommand struct {
	Name     string
	Kind     string
	Email    string
	Username string
	Password string
	Phone    string
	City     string
	State    string
}

func (c RegisterCommand) validate() (models.Kind, error) {
	v := validation.New()
	v.Require("name", c.Name)
	kind, err := models.ParseKind(c.Kind)
	v.Check("kind", err)
	authservice.AccountInput{Email: c.Email, Username: c.Username, Password: c.Password}.Validate(v)
	v.Require("phone", c.Phone).Check("phone", validation.Phone(c.Phone))
	return kind, v.Err()
}

// Register creates the account and the organization together.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*models.Organization, error) {
	kind, err := cmd.validate()
	if err != nil {
		return nil, err
	}

	var org *models.Organization
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.accounts.CreateAccount(ctx, authservice.AccountInput{
			Email:    cmd.Email,
			Username: cmd.Username,
			Password: cmd.Password,
		}, domain.RoleOrganization)
		if err != nil {
			return err
		}
		org = &models.Organization{
			ID:        domain.OrganizationID(user.ID),
			Name:      strings.TrimSpace(cmd.Name),
			Kind:      kind,
			Email:     user.Email,
			Phone:     cmd.Phone,
			City:      strings.TrimSpace(cmd.City),
			State:     strings.TrimSpace(cmd.State),
			CreatedAt: requestcontext.Now(ctx),
		}
		if err := s.store.Create(ctx, org); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "email is already registered")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create organization")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "organization registered",
		"request_id", requestcontext.RequestID(ctx),
		"organization_id", org.ID,
		"kind", org.Kind,
	)
	return org, nil
}

func (s *Service) Get(ctx context.Context, id domain.OrganizationID) (*models.Organization, error) {
	org, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "organization not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load organization")
	}
	return org, nil
}
