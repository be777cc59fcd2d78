package auth

import (
	"context"
	"strings"

	"github.com/minhnghia2k3/lumigram/internal/api"
	"github.com/minhnghia2k3/lumigram/internal/domain"
	"github.com/minhnghia2k3/lumigram/internal/session"
	"github.com/minhnghia2k3/lumigram/internal/toggle"
	pkgerrors "github.com/minhnghia2k3/lumigram/pkg/errors"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
	"go.uber.org/fx"
)

// Service gates sign-in, sign-up and sign-out. Validation failures are
// caught before any request is sent; a nil return from Login or Signup means
// success and the caller can read the cached current user.
type Service struct {
	client  api.Client
	session session.Store
	follows *toggle.Follows
	log     logger.Logger
}

type Opts struct {
	fx.In

	Client  api.Client
	Session session.Store
	Follows *toggle.Follows
	Logger  logger.Logger
}

func New(opts Opts) *Service {
	svc := &Service{
		client:  opts.Client,
		session: opts.Session,
		follows: opts.Follows,
		log:     opts.Logger,
	}
	// A 401 anywhere forces a logout; the session is already purged by the
	// API client, so only the session-scoped caches remain to clear.
	opts.Client.OnForcedLogout(func() {
		svc.log.Warn("Server rejected the credential, logged out")
		svc.follows.Reset()
	})
	return svc
}

// Login exchanges an identifier (email, 10-digit mobile number, or username)
// and password for a bearer token, persists it with the standard 3-day
// lifetime, and caches the current-user record. The returned error carries a
// user-facing message distinguishing invalid credentials from network
// trouble; read it with errors.GetMessage.
func (s *Service) Login(ctx context.Context, identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return pkgerrors.WrapWithCode(pkgerrors.ErrInvalidInput, "missing_fields", "Please fill in all fields.")
	}

	req := domain.LoginRequest{Password: password}
	switch {
	case IsValidEmail(identifier):
		req.Email = identifier
	case IsValidMobile(identifier):
		req.MobileNumber = identifier
	case IsValidUsername(identifier):
		req.Username = identifier
	default:
		return pkgerrors.WrapWithCode(pkgerrors.ErrInvalidInput, "bad_identifier",
			"Please enter a valid email, mobile number, or username.")
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return err
	}

	if err := s.session.Set(resp.Token, session.DefaultTTL); err != nil {
		return pkgerrors.Wrap(err, "failed to persist credential")
	}

	if err := s.RefreshCurrentUser(ctx); err != nil {
		s.log.Error("Failed to fetch current user after login", "error", err)
	}
	return nil
}

// Signup creates the account and persists the returned token. The caller is
// expected to follow up with CreatePersonalInfo before the user counts as
// fully onboarded.
func (s *Service) Signup(ctx context.Context, req domain.SignupRequest) error {
	if err := validate.Struct(req); err != nil {
		return pkgerrors.WrapWithCode(pkgerrors.ErrInvalidInput, "bad_signup", err.Error())
	}
	if errs := ValidatePassword(req.Password); len(errs) > 0 {
		return pkgerrors.WrapWithCode(pkgerrors.ErrInvalidInput, "weak_password", errs[0])
	}

	resp, err := s.client.Signup(ctx, req)
	if err != nil {
		return err
	}

	if err := s.session.Set(resp.Token, session.DefaultTTL); err != nil {
		return pkgerrors.Wrap(err, "failed to persist credential")
	}

	if err := s.RefreshCurrentUser(ctx); err != nil {
		s.log.Error("Failed to fetch current user after signup", "error", err)
	}
	return nil
}

// CreatePersonalInfo finishes onboarding and refreshes the cached user.
func (s *Service) CreatePersonalInfo(ctx context.Context, info domain.PersonalInfo) error {
	if err := s.client.CreatePersonalInfo(ctx, info); err != nil {
		return err
	}
	return s.RefreshCurrentUser(ctx)
}

// Logout clears the credential and every session-scoped cache. It is
// synchronous and idempotent.
func (s *Service) Logout() {
	if err := s.session.Clear(); err != nil {
		s.log.Error("Failed to clear session", "error", err)
	}
	s.follows.Reset()
}

// IsAuthenticated is a pure predicate on credential presence.
func (s *Service) IsAuthenticated() bool {
	return s.session.Authenticated()
}

// CurrentUser returns the cached current-user record, or nil.
func (s *Service) CurrentUser() *domain.User {
	return s.session.CurrentUser()
}

// RefreshCurrentUser re-fetches /me and caches the result.
func (s *Service) RefreshCurrentUser(ctx context.Context) error {
	user, err := s.client.Me(ctx)
	if err != nil {
		return err
	}
	return s.session.SetCurrentUser(user)
}

// UsernameSuggestions asks the server for available names. Base names
// shorter than three characters return an empty list without a request.
func (s *Service) UsernameSuggestions(ctx context.Context, baseName string) ([]string, error) {
	if len(baseName) < 3 {
		return nil, nil
	}
	return s.client.UsernameSuggestions(ctx, baseName)
}

// ForgotPassword requests a reset link.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return pkgerrors.WrapWithCode(pkgerrors.ErrInvalidInput, "missing_email", "Please enter an email!")
	}
	return s.client.ForgotPassword(ctx, email)
}

// ResetPassword submits the new password after a local match check.
func (s *Service) ResetPassword(ctx context.Context, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return pkgerrors.WrapWithCode(pkgerrors.ErrInvalidInput, "password_mismatch", "Passwords do not match!")
	}
	return s.client.ResetPassword(ctx, newPassword)
}
