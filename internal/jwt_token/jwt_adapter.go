package jwttoken

import (
	"bloodlink/pkg/domain"
	authmw "bloodlink/pkg/platform/middleware/auth"
)

// ToMiddlewareClaims converts validated claims. Callers must pass claims that
// came out of ValidateToken, which already checked the id and role.
func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	userID, _ := domain.ParseUserID(claims.UserID)
	role, _ := domain.ParseRole(claims.Role)
	out := &authmw.JWTClaims{
		UserID: userID,
		Role:   role,
		JTI:    claims.ID, // JWT ID for revocation tracking
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}

type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
