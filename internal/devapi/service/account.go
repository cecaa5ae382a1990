package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/carhire/internal/devapi/domain"
	"github.com/aussiebroadwan/carhire/internal/devapi/store"
	"github.com/aussiebroadwan/carhire/pkg/cryptox"
	"github.com/aussiebroadwan/carhire/pkg/idx"
	"github.com/aussiebroadwan/carhire/pkg/jwtx"
	"github.com/aussiebroadwan/carhire/pkg/slogx"
)

const minPasswordLength = 8

// AccountService registers renters, checks passwords and mints access
// tokens.
type AccountService struct {
	Store    store.Store
	Hasher   *cryptox.PasswordHasher
	Signer   jwtx.Signer
	Issuer   string
	TokenTTL time.Duration
	Now      func() time.Time // defaults to time.Now
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// NormalizeEmail lower-cases and trims an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in RegisterInput) validate() error {
	if _, err := mail.ParseAddress(in.Email); err != nil || in.Email == "" {
		return &ValidationError{Field: "email", Message: "must be an email"}
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLength {
		return &ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	if strings.TrimSpace(in.FullName) == "" {
		return &ValidationError{Field: "full_name", Message: "is required"}
	}
	return nil
}

// RegisterRenter creates an active renter account.
func (s *AccountService) RegisterRenter(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Email = NormalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := in.validate(); err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        in.Email,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         domain.RoleRenter,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return u, nil
}

// Login verifies the password and returns a signed access token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}
	if !u.IsActive {
		return "", ErrAccountDisabled
	}

	return s.IssueToken(u)
}

// IssueToken mints an access token carrying u's identity claims.
func (s *AccountService) IssueToken(u domain.User) (string, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewRenterClaims(u.ID, u.Email, u.Role, u.FullName, u.Phone, u.IsActive, ttl, s.Issuer, s.now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// GetUser returns the account id. Renters may only read their own account.
func (s *AccountService) GetUser(ctx context.Context, callerID, callerRole, id string) (domain.User, error) {
	if callerRole != domain.RoleAdmin && callerID != id {
		return domain.User{}, ErrForbidden
	}

	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}

// SetActive enables or disables an account. Disabled accounts can no
// longer log in and their outstanding tokens are rejected.
func (s *AccountService) SetActive(ctx context.Context, id string, active bool) error {
	err := s.Store.Users().SetActive(ctx, id, active)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// BootstrapAdmin creates the first ADMIN account when the user table is
// empty. It reports whether an account was created.
func (s *AccountService) BootstrapAdmin(ctx context.Context, email, password string) (bool, error) {
	l := slogx.FromContext(ctx)

	created := false
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		n, err := tx.Users().CountUsers(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		in := RegisterInput{Email: NormalizeEmail(email), Password: password, FullName: "Administrator"}
		if err := in.validate(); err != nil {
			return err
		}
		hash, err := s.Hasher.Hash(in.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		created = true
		return tx.Users().CreateUser(ctx, domain.User{
			ID:           idx.New().String(),
			Email:        in.Email,
			FullName:     in.FullName,
			Role:         domain.RoleAdmin,
			PasswordHash: hash,
			IsActive:     true,
		})
	})
	if err != nil {
		return false, err
	}
	if created {
		l.Info("admin account bootstrapped", "email", NormalizeEmail(email))
	}
	return created, nil
}

// IsActive reports whether the account behind a token may still use it.
func (s *AccountService) IsActive(ctx context.Context, id string) (bool, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsActive, nil
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
