package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime the rental API gives renter access tokens.
const DefaultAccessTokenTTL = 24 * time.Hour

// Claims are the identity claims carried by a rental API access token.
//
// The backend has shipped tokens with two spellings for the subject id
// ("_id" and "id") and for the display name ("full_name" and "name"), so
// decoding accepts both and prefers the first. Encoding always writes the
// primary spelling.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the account identifier ("_id", falling back to "id", then "sub").
	UserID string `json:"_id,omitempty"`

	Email string `json:"email,omitempty"`

	// Role is the account role, e.g. "RENTER" or "ADMIN".
	Role string `json:"role,omitempty"`

	// FullName is the display name ("full_name", falling back to "name").
	FullName string `json:"full_name,omitempty"`

	Phone string `json:"phone,omitempty"`

	IsActive bool `json:"is_active"`
}

// wireClaims is the tolerant decode shape. Pointers distinguish "absent"
// from "present but empty" so the alias order is respected.
type wireClaims struct {
	jwt.RegisteredClaims

	UnderscoreID *string `json:"_id"`
	PlainID      *string `json:"id"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	FullName     *string `json:"full_name"`
	Name         *string `json:"name"`
	Phone        string  `json:"phone"`
	IsActive     *bool   `json:"is_active"`
}

// UnmarshalJSON maps the aliased payload fields onto Claims.
func (c *Claims) UnmarshalJSON(b []byte) error {
	var w wireClaims
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*c = Claims{
		RegisteredClaims: w.RegisteredClaims,
		UserID:           firstPresent(w.UnderscoreID, w.PlainID),
		Email:            w.Email,
		Role:             w.Role,
		FullName:         firstPresent(w.FullName, w.Name),
		Phone:            w.Phone,
		IsActive:         w.IsActive == nil || *w.IsActive,
	}
	if c.UserID == "" {
		c.UserID = w.Subject
	}
	return nil
}

func firstPresent(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

// NewRenterClaims builds claims for a freshly authenticated account.
func NewRenterClaims(
	userID, email, role, fullName, phone string,
	active bool,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UserID:   userID,
		Email:    email,
		Role:     role,
		FullName: fullName,
		Phone:    phone,
		IsActive: active,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ExpiresUnix returns exp in seconds since epoch, or 0 when absent.
func (c *Claims) ExpiresUnix() int64 {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Unix()
}

// IssuedUnix returns iat in seconds since epoch, or 0 when absent.
func (c *Claims) IssuedUnix() int64 {
	if c.IssuedAt == nil {
		return 0
	}
	return c.IssuedAt.Unix()
}

// ExpiredAt reports whether the token is expired at now. A token whose exp
// equals now is expired.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.After(now)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryWithLeeway(0)
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
