package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bloodlink/internal/auth/models"
	jwttoken "bloodlink/internal/jwt_token"
	"bloodlink/internal/platform/metrics"
	"bloodlink/pkg/domain"
	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/sentinel"
	"bloodlink/pkg/platform/validation"
	"bloodlink/pkg/requestcontext"
	"bloodlink/pkg/secrets"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id domain.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id domain.UserID, at time.Time) error
	Delete(ctx context.Context, id domain.UserID) error
}

type TokenIssuer interface {
	GenerateAccessToken(userID domain.UserID, role domain.Role, expiresIn time.Duration) (*jwttoken.IssuedToken, error)
}

type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) error
}

// Service owns accounts, login and logout.
type Service struct {
	users          UserStore
	tokens         TokenIssuer
	revocations    RevocationList
	hasher         PasswordHasher
	accessTokenTTL time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAccessTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.accessTokenTTL = ttl
		}
	}
}

func New(users UserStore, tokens TokenIssuer, revocations RevocationList, hasher PasswordHasher, opts ...Option) *Service {
	s := &Service{
		users:          users,
		tokens:         tokens,
		revocations:    revocations,
		hasher:         hasher,
		accessTokenTTL: 24 * time.Hour,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AccountInput is the credential part of any registration form.
type AccountInput struct {
	Email    string
	Username string
	Password string
}

// Validate checks email, password and, when given, username. Field errors are
// added to v so callers can merge them with their own form fields.
func (in AccountInput) Validate(v *validation.Collector) {
	v.Require("email", in.Email).Check("email", validation.Email(models.NormalizeEmail(in.Email)))
	v.Require("password", in.Password).Check("password", validation.Password(in.Password))
	if in.Username != "" {
		v.Check("username", validation.Username(in.Username))
	}
}

// CreateAccount stores a new account with a hashed password. The caller is
// expected to have validated in. When ctx carries a transaction the insert
// joins it.
func (s *Service) CreateAccount(ctx context.Context, in AccountInput, role domain.Role) (*models.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	user := &models.User{
		ID:           domain.UserID(uuid.New()),
		Email:        models.NormalizeEmail(in.Email),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
		Provider:     models.ProviderPassword,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}
	s.metrics.IncrementUsersCreated(string(role))
	s.logger.InfoContext(ctx, "account created",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
		"role", role,
	)
	return user, nil
}

// BootstrapAdmin creates an admin account. Routes calling it are guarded by
// the operator token.
func (s *Service) BootstrapAdmin(ctx context.Context, in AccountInput) (*models.User, error) {
	v := validation.New()
	in.Validate(v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.CreateAccount(ctx, in, domain.RoleAdmin)
}

// Login checks the password and issues an access token. Unknown emails and
// wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	invalid := dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, invalid
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, secrets.ErrMismatch) {
			s.logger.WarnContext(ctx, "login failed",
				"request_id", requestcontext.RequestID(ctx),
				"user_id", user.ID,
			)
			return nil, invalid
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}

	issued, err := s.tokens.GenerateAccessToken(user.ID, user.Role, s.accessTokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID, requestcontext.Now(ctx)); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", user.ID,
			"error", err,
		)
	}
	return &models.Session{
		AccessToken: issued.Token,
		TokenType:   "Bearer",
		ExpiresAt:   issued.ExpiresAt,
		UserID:      user.ID,
		Role:        user.Role,
	}, nil
}

// Logout revokes the caller's access token until it would have expired.
func (s *Service) Logout(ctx context.Context) error {
	session, ok := requestcontext.Session(ctx)
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "not authenticated")
	}
	ttl := session.ExpiresAt.Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.RevokeToken(ctx, session.TokenID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	s.logger.InfoContext(ctx, "token revoked",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", session.UserID,
	)
	return nil
}

// IsTokenRevoked lets the auth middleware consult the revocation list.
func (s *Service) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revocations.IsRevoked(ctx, jti)
}

func (s *Service) Me(ctx context.Context) (*models.User, error) {
	return s.GetUser(ctx, requestcontext.UserID(ctx))
}

func (s *Service) GetUser(ctx context.Context, id domain.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return user, nil
}

// DeleteUser removes an account. Profile rows owned by the account are
// removed by the caller in the same transaction.
func (s *Service) DeleteUser(ctx context.Context, id domain.UserID) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "user ID required")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete account")
	}
	s.logger.InfoContext(ctx, "account deleted",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", id,
	)
	return nil
}

// PasswordFeedback is advisory strength feedback for a candidate password.
type PasswordFeedback struct {
	Strength validation.Strength `json:"strength"`
	Message  string              `json:"message"`
	Valid    bool                `json:"valid"`
}

func (s *Service) CheckPassword(password string) PasswordFeedback {
	strength, msg := validation.PasswordStrength(password)
	return PasswordFeedback{
		Strength: strength,
		Message:  msg,
		Valid:    validation.Password(password) == nil,
	}
}
