package testutil

import (
	"net/http"
	"time"

	"bloodlink/pkg/domain"
	"bloodlink/pkg/requestcontext"
)

// WithSession attaches an authenticated session to the request, the way
// RequireAuth would after validating a token.
func WithSession(req *http.Request, userID domain.UserID, role domain.Role) *http.Request {
	ctx := requestcontext.WithSession(req.Context(), requestcontext.AuthSession{
		UserID:    userID,
		Role:      role,
		TokenID:   "test-jti",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	return req.WithContext(ctx)
}

// AsDonor authenticates the request as the donor with the given ID.
func AsDonor(req *http.Request, id domain.DonorID) *http.Request {
	return WithSession(req, domain.UserID(id), domain.RoleDonor)
}

// AsOrganization authenticates the request as the organization with the given ID.
func AsOrganization(req *http.Request, id domain.OrganizationID) *http.Request {
	return WithSession(req, domain.UserID(id), domain.RoleOrganization)
}
