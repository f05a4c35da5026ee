// Package service contains application services for identity and the catalog.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sethvargo/go-retry"

	"github.com/and161185/docuvault/internal/errs"
	"github.com/and161185/docuvault/internal/limiter"
	"github.com/and161185/docuvault/internal/model"
	"github.com/and161185/docuvault/internal/repository"
)

// RegistryService issues user identifiers and authenticates sessions.
type RegistryService interface {
	// Register creates a new identity and returns it with its allocated uid.
	Register(ctx context.Context, name, email string) (*model.User, error)
	// Authenticate verifies the presented uid, applying per-(uid, ip) rate
	// limiting, and returns the identity with a signed session token.
	Authenticate(ctx context.Context, uid int64, ip string) (*model.User, string, time.Time, error)
	// VerifyToken parses a session token and returns the uid it was issued for.
	VerifyToken(token string) (int64, error)
	// Lookup loads an identity by uid for a session already verified by token.
	Lookup(ctx context.Context, uid int64) (*model.User, error)
}

type RegistryServiceImpl struct {
	users     repository.UserRepository
	lim       limiter.Limiter
	signKey   []byte
	accessTTL time.Duration
}

// NewRegistryService constructs RegistryService with required dependencies.
func NewRegistryService(users repository.UserRepository, lim limiter.Limiter, signKey []byte, accessTTL time.Duration) *RegistryServiceImpl {
	return &RegistryServiceImpl{users: users, lim: lim, signKey: signKey, accessTTL: accessTTL}
}

// Register validates input and creates the identity. The uid allocation is
// atomic at the store; on a concurrent-allocation conflict the insert is
// retried with backoff. Duplicate emails are reported as-is, not retried.
func (s *RegistryServiceImpl) Register(ctx context.Context, name, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", errs.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: bad email", errs.ErrValidation)
	}

	var u *model.User
	b := retry.WithMaxRetries(3, retry.NewExponential(10*time.Millisecond))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var err error
		u, err = s.users.Create(ctx, name, email)
		if errors.Is(err, errs.ErrUIDConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate looks up the presented uid. Failed lookups count against the
// (uid, ip) limiter; once blocked, attempts fail with ErrRateLimited until
// the lockout expires.
func (s *RegistryServiceImpl) Authenticate(ctx context.Context, uid int64, ip string) (*model.User, string, time.Time, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, uid, ipHash)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !allowed {
		return nil, "", time.Time{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		if blocked, _, ferr := s.lim.Failure(ctx, uid, ipHash); ferr == nil && blocked {
			return nil, "", time.Time{}, errs.ErrRateLimited
		}
		if errors.Is(err, errs.ErrNotFound) {
			return nil, "", time.Time{}, errs.ErrNotFound
		}
		return nil, "", time.Time{}, err
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, uid, ipHash)

	token, exp, err := s.issueToken(u.UID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

// Lookup loads the identity without touching the limiter; the caller has
// already proven possession of a valid session token.
func (s *RegistryServiceImpl) Lookup(ctx context.Context, uid int64) (*model.User, error) {
	if uid <= 0 {
		return nil, fmt.Errorf("%w: empty uid", errs.ErrValidation)
	}
	return s.users.GetByUID(ctx, uid)
}

// issueToken creates a signed HS256 JWT for the given uid.
func (s *RegistryServiceImpl) issueToken(uid int64) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(uid, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	return signed, exp, err
}

// VerifyToken checks signature and validity and extracts the uid subject.
func (s *RegistryServiceImpl) VerifyToken(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return 0, errs.ErrUnauthorized
	}

	v := jwt.NewValidator(jwt.WithLeeway(30 * time.Second))
	if err := v.Validate(&claims); err != nil {
		return 0, errs.ErrUnauthorized
	}

	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || uid <= 0 {
		return 0, errs.ErrUnauthorized
	}
	return uid, nil
}
