package models

import (
	"strings"
	"time"

	"bloodlink/pkg/domain"
)

// ProviderPassword marks accounts that sign in with email and password.
// Other values are kept for compatibility with federated accounts; no
// federated sign-in flow exists.
const ProviderPassword = "password"

// User is an account that can sign in.
//
// Invariants:
//   - Email is stored lower-cased and is unique
//   - PasswordHash is a bcrypt hash, never the plaintext
type User struct {
	ID           domain.UserID `json:"id"`
	Email        string        `json:"email"`
	Username     string        `json:"username,omitempty"`
	PasswordHash string        `json:"-"`
	Role         domain.Role   `json:"role"`
	Provider     string        `json:"provider"`
	CreatedAt    time.Time     `json:"created_at"`
	LastLoginAt  *time.Time    `json:"last_login_at,omitempty"`
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Session is what a successful login returns to the client.
type Session struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	UserID      domain.UserID `json:"user_id"`
	Role        domain.Role   `json:"role"`
}
