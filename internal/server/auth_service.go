package server

import (
	"context"
	"fmt"
	"time"

	internalauth "cstsite/internal/auth"
	"cstsite/internal/models"
	"cstsite/internal/store"
)

const (
	loginMaxFailures = 5
	loginWindow      = 5 * time.Minute
	loginBlockedFor  = 15 * time.Minute
)

// AuthService handles admin login against the store.
type AuthService struct {
	store   *store.Store
	secret  []byte
	limiter *loginRateLimiter
}

type authLoginResult struct {
	Admin     *models.AdminIdentity
	Token     string
	ExpiresAt time.Time
}

func NewAuthService(st *store.Store, secret []byte) *AuthService {
	return &AuthService{
		store:   st,
		secret:  secret,
		limiter: newLoginRateLimiter(loginMaxFailures, loginWindow, loginBlockedFor),
	}
}

// Login authenticates one admin. Validation failures are 400s and happen
// before any credential check; credential failures are a generic 401 so the
// response never reveals whether the username exists.
func (a *AuthService) Login(ctx context.Context, username, password, clientKey string, now time.Time) (*authLoginResult, error) {
	normalized, err := internalauth.NormalizeUsername(username)
	if err != nil {
		return nil, badRequest(err)
	}
	if err := internalauth.ValidatePassword(password); err != nil {
		return nil, badRequest(err)
	}

	limiterKey := clientKey + "|" + normalized
	if !a.limiter.Allow(limiterKey, now) {
		return nil, makeAPIError(429, "resource_exhausted", ErrCodeResourceExhausted,
			fmt.Errorf("too many failed login attempts, try again later"))
	}

	admin, err := a.store.GetAdminByUsername(ctx, normalized)
	if err != nil {
		return nil, storeFailure(err)
	}
	if admin == nil || !admin.IsActive || !internalauth.VerifyPassword(admin.PasswordHash, password) {
		a.limiter.RegisterFailure(limiterKey, now)
		return nil, unauthorized(fmt.Errorf("invalid credentials"))
	}

	token, err := internalauth.IssueToken(a.secret, admin.ID, admin.Username, string(admin.Role), now)
	if err != nil {
		return nil, makeAPIError(500, "internal", ErrCodeInternal, err)
	}

	a.limiter.Reset(limiterKey)
	if err := a.store.TouchAdminLogin(ctx, admin.ID, now); err != nil {
		return nil, storeFailure(err)
	}
	admin.LastLogin = &now

	return &authLoginResult{
		Admin:     admin,
		Token:     token,
		ExpiresAt: now.Add(internalauth.TokenTTL),
	}, nil
}
