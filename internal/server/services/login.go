// Package services contains server-side business logic. This file implements
// LoginService, which validates submitted credentials, verifies them against
// the user store, and issues signed session tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/admingate/internal/common"
	"github.com/dmitrijs2005/admingate/internal/logging"
	"github.com/dmitrijs2005/admingate/internal/server/auth"
	"github.com/dmitrijs2005/admingate/internal/server/config"
	"github.com/dmitrijs2005/admingate/internal/server/limiter"
	"github.com/dmitrijs2005/admingate/internal/server/repositories/users"
)

// FailureReason classifies a failed login attempt into the categories shown
// to the user. Unknown email and wrong password deliberately collapse into
// ReasonInvalidCredentials so valid addresses cannot be enumerated.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonInvalidInput
	ReasonInvalidCredentials
	ReasonTooManyAttempts
	ReasonUnknown
)

// LoginResult is the single outcome of a login attempt. The service always
// returns one; internal diagnostic detail never reaches the caller, it is
// logged server-side instead. On success Token carries the signed session
// token and RedirectTo the sanitized post-login target.
type LoginResult struct {
	OK         bool
	Token      string
	RedirectTo string
	Reason     FailureReason
	Message    string
}

// AttemptLimiter throttles repeated login attempts. Implemented by
// limiter.Limiter; a nil limiter disables throttling.
type AttemptLimiter interface {
	CheckLogin(ctx context.Context, email, ip string) error
	Reset(ctx context.Context, email, ip string) error
}

// LoginService sequences validation, lookup, password verification and
// session issuance. All steps except issuance are pure reads.
type LoginService struct {
	repo              users.Repository
	limiter           AttemptLimiter
	logger            logging.Logger
	jwtSecret         []byte
	sessionLifetime   time.Duration
	passwordMinLength int
	dashboardPath     string
	dummyHash         []byte
}

// NewLoginService constructs a LoginService. The dummy hash is precomputed at
// the configured cost so that attempts against unknown emails still pay a
// comparable bcrypt comparison (see Login).
func NewLoginService(repo users.Repository, lim AttemptLimiter, logger logging.Logger, cfg *config.Config) (*LoginService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("error generating dummy hash: %w", err)
	}

	return &LoginService{
		repo:              repo,
		limiter:           lim,
		logger:            logger.With("module", "login"),
		jwtSecret:         []byte(cfg.SecretKey),
		sessionLifetime:   cfg.SessionLifetime,
		passwordMinLength: cfg.PasswordMinLength,
		dashboardPath:     cfg.DashboardPath,
		dummyHash:         dummy,
	}, nil
}

// SanitizeRedirect constrains a post-login redirect target to a same-origin
// relative path. Anything else (empty, scheme-relative "//host", absolute
// URL, backslash tricks) is replaced with the fallback, closing the open
// redirect the `from` parameter would otherwise be.
func SanitizeRedirect(from, fallback string) string {
	if from == "" {
		return fallback
	}
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return fallback
	}
	if strings.Contains(from, "\\") {
		return fallback
	}
	return from
}

func (s *LoginService) validateCredentials(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", common.ErrorInvalidEmailFormat
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", common.ErrorInvalidEmailFormat
	}
	if len(password) < s.passwordMinLength {
		return "", common.ErrorPasswordTooShort
	}
	return email, nil
}

func (s *LoginService) inputFailure(err error) *LoginResult {
	msg := "invalid email address"
	if errors.Is(err, common.ErrorPasswordTooShort) {
		msg = fmt.Sprintf("password must be at least %d characters", s.passwordMinLength)
	}
	return &LoginResult{Reason: ReasonInvalidInput, Message: msg}
}

func invalidCredentials() *LoginResult {
	return &LoginResult{Reason: ReasonInvalidCredentials, Message: "invalid email or password"}
}

func unknownFailure() *LoginResult {
	return &LoginResult{Reason: ReasonUnknown, Message: "something went wrong, please try again"}
}

// Login runs the full credential flow and always returns a LoginResult.
//
// An unknown email does not short-circuit: a comparison against a
// precomputed dummy hash runs instead, keeping the timing of "no such user"
// close to that of "wrong password". The residual difference (one SQL row vs
// none) is accepted; the error payload is identical for both cases.
func (s *LoginService) Login(ctx context.Context, email, password, from, clientIP string) *LoginResult {
	normalized, err := s.validateCredentials(email, password)
	if err != nil {
		return s.inputFailure(err)
	}

	if s.limiter != nil {
		if err := s.limiter.CheckLogin(ctx, normalized, clientIP); err != nil {
			if errors.Is(err, limiter.ErrRateLimited) {
				return &LoginResult{Reason: ReasonTooManyAttempts, Message: "too many login attempts, try again later"}
			}
			// Counter store down: availability of login wins over throttling.
			s.logger.Warn(ctx, "attempt limiter unavailable", "error", err.Error())
		}
	}

	user, err := s.repo.GetByEmail(ctx, normalized)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return unknownFailure()
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return invalidCredentials()
	}

	token, err := auth.GenerateToken(user, s.jwtSecret, s.sessionLifetime)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err.Error())
		return unknownFailure()
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, normalized, clientIP); err != nil {
			s.logger.Warn(ctx, "attempt counter reset failed", "error", err.Error())
		}
	}

	s.logger.Info(ctx, "login succeeded", "user_id", user.ID)

	return &LoginResult{
		OK:         true,
		Token:      token,
		RedirectTo: SanitizeRedirect(from, s.dashboardPath),
	}
}
