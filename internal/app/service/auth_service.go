package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/identity"
	"github.com/mykitchen/kitchen/internal/state"
	"github.com/mykitchen/kitchen/pkg/logger"
	"github.com/mykitchen/kitchen/pkg/util"
)

var (
	ErrEmailAlreadyExists = identity.ErrEmailAlreadyExists
	ErrInvalidCredentials = identity.ErrInvalidCredentials
	ErrNotSignedIn        = errors.New("not signed in")
)

// RegisterInput is a new account's sign-up form.
type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// Validate checks the sign-up form before it reaches the provider.
func (in RegisterInput) Validate() error {
	fields := fieldErrors{}
	if strings.TrimSpace(in.DisplayName) == "" {
		fields.add("displayName", "display name is required")
	}
	if strings.TrimSpace(in.PhotoURL) == "" {
		fields.add("photoURL", "photo URL is required")
	}
	if !util.IsValidEmail(strings.TrimSpace(in.Email)) {
		fields.add("email", "email is invalid")
	}
	if len(in.Password) < util.MinPasswordLength {
		fields.add("password", "password must be at least 6 characters")
	}
	return fields.err()
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.Identity, error)
	Login(ctx context.Context, email, password string) (*model.Identity, error)
	LoginWithIDToken(ctx context.Context, idToken string) (*model.Identity, error)
	Logout(ctx context.Context) error
	// Restore revalidates a session carried over from a previous run and then
	// marks authentication ready. Only the first call does any work.
	Restore(ctx context.Context)
	Current() state.Session
}

type authService struct {
	provider identity.Provider
	store    StateStore

	restoreOnce sync.Once
}

func NewAuthService(provider identity.Provider, store StateStore) AuthService {
	return &authService{provider: provider, store: store}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.Identity, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email":    in.Email,
		"provider": s.provider.Name(),
	})

	if err := in.Validate(); err != nil {
		logger.Warn("Registration rejected", map[string]interface{}{
			"email": in.Email,
			"error": err.Error(),
		})
		return nil, err
	}

	id, err := s.provider.SignUp(ctx, identity.SignUpInput{
		Email:       in.Email,
		Password:    in.Password,
		DisplayName: in.DisplayName,
		PhotoURL:    in.PhotoURL,
	})
	if err != nil {
		s.logFailure("Registration failed", err, in.Email)
		return nil, err
	}

	s.store.Dispatch(state.SetSession{Identity: *id})

	logger.Info("User registered successfully", map[string]interface{}{
		"uid":   id.UID,
		"email": id.Email,
	})
	return id, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email":    email,
		"provider": s.provider.Name(),
	})

	id, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.logFailure("Login failed", err, email)
		return nil, err
	}

	s.store.Dispatch(state.SetSession{Identity: *id})

	logger.Info("User logged in successfully", map[string]interface{}{
		"uid": id.UID,
	})
	return id, nil
}

func (s *authService) LoginWithIDToken(ctx context.Context, idToken string) (*model.Identity, error) {
	logger.Info("Federated login attempt", map[string]interface{}{
		"provider": s.provider.Name(),
	})

	id, err := s.provider.SignInWithIDToken(ctx, idToken)
	if err != nil {
		s.logFailure("Federated login failed", err, "")
		return nil, err
	}

	s.store.Dispatch(state.SetSession{Identity: *id})
	return id, nil
}

// Logout signs out with the provider and then clears the session. If the
// provider fails the session is kept.
func (s *authService) Logout(ctx context.Context) error {
	current := s.store.Snapshot().Session.Identity
	if current == nil {
		return ErrNotSignedIn
	}

	if err := s.provider.SignOut(ctx, current); err != nil {
		logger.Error("Provider sign out failed", err, map[string]interface{}{
			"uid": current.UID,
		})
		return err
	}

	s.store.Dispatch(state.ClearSession{})

	logger.Info("User logged out", map[string]interface{}{
		"uid": current.UID,
	})
	return nil
}

func (s *authService) Restore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		s.restore(ctx)
		s.store.Dispatch(state.MarkReady{})
		logger.Info("Authentication ready", map[string]interface{}{
			"signed_in": s.store.Snapshot().Session.SignedIn(),
		})
	})
}

func (s *authService) restore(ctx context.Context) {
	current := s.store.Snapshot().Session.Identity
	if current == nil {
		return
	}

	if current.Token == "" {
		logger.Warn("Restored session has no token, clearing", map[string]interface{}{
			"uid": current.UID,
		})
		s.store.Dispatch(state.ClearSession{})
		return
	}

	refreshed, err := s.provider.Verify(ctx, current.Token)
	switch {
	case errors.Is(err, identity.ErrInvalidToken):
		logger.Info("Restored session rejected by provider, clearing", map[string]interface{}{
			"uid": current.UID,
		})
		s.store.Dispatch(state.ClearSession{})
	case err != nil:
		// Provider unreachable: keep the mirrored session.
		logger.Warn("Could not revalidate restored session", map[string]interface{}{
			"uid":   current.UID,
			"error": err.Error(),
		})
	default:
		s.store.Dispatch(state.SetSession{Identity: *refreshed})
	}
}

func (s *authService) Current() state.Session {
	return s.store.Snapshot().Session
}

func (s *authService) logFailure(msg string, err error, email string) {
	fields := map[string]interface{}{"email": email}
	if errors.Is(err, identity.ErrInvalidCredentials) ||
		errors.Is(err, identity.ErrEmailAlreadyExists) ||
		errors.Is(err, identity.ErrInvalidToken) ||
		errors.Is(err, identity.ErrWeakPassword) ||
		errors.Is(err, identity.ErrUnsupported) {
		fields["error"] = err.Error()
		logger.Warn(msg, fields)
		return
	}
	logger.Error(msg, err, fields)
}
