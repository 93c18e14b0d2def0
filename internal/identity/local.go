package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/app/repository"
	"github.com/mykitchen/kitchen/pkg/logger"
	"github.com/mykitchen/kitchen/pkg/util"
)

// TokenRevoker records signed-out tokens until they would have expired.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}

var _ Provider = (*LocalProvider)(nil)

// LocalProvider keeps accounts in the relational database and issues signed
// session tokens.
type LocalProvider struct {
	users   repository.UserRepository
	secret  string
	expiry  time.Duration
	revoker TokenRevoker
}

// NewLocalProvider builds a provider. revoker may be nil, in which case sign
// out only ends the client session.
func NewLocalProvider(users repository.UserRepository, secret string, expiry time.Duration, revoker TokenRevoker) *LocalProvider {
	return &LocalProvider{users: users, secret: secret, expiry: expiry, revoker: revoker}
}

func (p *LocalProvider) Name() string { return "local" }

func (p *LocalProvider) SignUp(ctx context.Context, in SignUpInput) (*model.Identity, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	_, err := p.users.FindByEmail(ctx, email)
	if err == nil {
		logger.Warn("Sign up attempted with existing email", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	hash, err := util.HashPassword(in.Password)
	if errors.Is(err, util.ErrPasswordTooShort) {
		return nil, ErrWeakPassword
	}
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PhotoURL:     strings.TrimSpace(in.PhotoURL),
	}
	if err := p.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	logger.Info("Local account created", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return p.issue(user)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*model.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := p.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrInvalidCredentials
	}
	return p.issue(user)
}

func (p *LocalProvider) SignInWithIDToken(ctx context.Context, idToken string) (*model.Identity, error) {
	return nil, ErrUnsupported
}

func (p *LocalProvider) Verify(ctx context.Context, token string) (*model.Identity, error) {
	claims, err := util.ValidateToken(token, p.secret)
	if err != nil {
		logger.Debug("Session token rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, ErrInvalidToken
	}

	if p.revoker != nil {
		revoked, err := p.revoker.IsTokenRevoked(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	user, err := p.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	identity := user.Identity()
	identity.Token = token
	return identity, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, identity *model.Identity) error {
	if p.revoker == nil || identity == nil || identity.Token == "" {
		return nil
	}

	claims, err := util.ValidateToken(identity.Token, p.secret)
	if err != nil {
		return nil
	}
	return p.revoker.RevokeToken(ctx, identity.Token, util.TokenTTL(claims))
}

func (p *LocalProvider) issue(user *model.User) (*model.Identity, error) {
	token, err := util.GenerateToken(user.ID, user.Email, user.DisplayName, p.secret, p.expiry)
	if err != nil {
		return nil, err
	}
	identity := user.Identity()
	identity.Token = token
	return identity, nil
}
