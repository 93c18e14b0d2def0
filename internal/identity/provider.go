// Package identity signs users in and out against an account backend and
// revalidates restored sessions.
package identity

import (
	"context"
	"errors"

	"github.com/mykitchen/kitchen/internal/app/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password is too weak")
	// ErrInvalidToken means the provider no longer accepts the session token.
	ErrInvalidToken = errors.New("session token rejected")
	ErrUnsupported  = errors.New("operation not supported by identity provider")
)

// SignUpInput carries a new account's credentials and profile.
type SignUpInput struct {
	Email       string
	Password    string
	DisplayName string
	PhotoURL    string
}

// Provider is an account backend. Every successful call returns an identity
// whose Token can later be passed to Verify or SignOut.
type Provider interface {
	Name() string
	SignUp(ctx context.Context, in SignUpInput) (*model.Identity, error)
	SignIn(ctx context.Context, email, password string) (*model.Identity, error)
	SignInWithIDToken(ctx context.Context, idToken string) (*model.Identity, error)
	Verify(ctx context.Context, token string) (*model.Identity, error)
	SignOut(ctx context.Context, identity *model.Identity) error
}
