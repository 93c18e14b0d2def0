package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/pkg/identitytoolkit"
	"github.com/mykitchen/kitchen/pkg/logger"
)

// AdminAuth is the subset of the Firebase Admin auth client used here.
// *auth.Client satisfies it.
type AdminAuth interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// PasswordAuth signs email/password accounts up and in.
// *identitytoolkit.Client satisfies it.
type PasswordAuth interface {
	SignUp(ctx context.Context, email, password string) (*identitytoolkit.AuthResponse, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identitytoolkit.AuthResponse, error)
}

var _ Provider = (*FirebaseProvider)(nil)

// FirebaseProvider delegates accounts to Firebase Authentication. Session
// tokens are Firebase ID tokens.
type FirebaseProvider struct {
	admin     AdminAuth
	passwords PasswordAuth
}

func NewFirebaseProvider(admin AdminAuth, passwords PasswordAuth) *FirebaseProvider {
	return &FirebaseProvider{admin: admin, passwords: passwords}
}

func (p *FirebaseProvider) Name() string { return "firebase" }

func (p *FirebaseProvider) SignUp(ctx context.Context, in SignUpInput) (*model.Identity, error) {
	resp, err := p.passwords.SignUp(ctx, strings.TrimSpace(in.Email), in.Password)
	if err != nil {
		return nil, mapToolkitError(err)
	}

	params := (&auth.UserToUpdate{}).DisplayName(strings.TrimSpace(in.DisplayName))
	if photo := strings.TrimSpace(in.PhotoURL); photo != "" {
		params = params.PhotoURL(photo)
	}
	record, err := p.admin.UpdateUser(ctx, resp.LocalID, params)
	if err != nil {
		logger.Error("Failed to set profile on new firebase account", err, map[string]interface{}{
			"uid": resp.LocalID,
		})
		return nil, fmt.Errorf("update profile: %w", err)
	}

	logger.Info("Firebase account created", map[string]interface{}{
		"uid": resp.LocalID,
	})
	return identityFromRecord(record, resp.IDToken), nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*model.Identity, error) {
	resp, err := p.passwords.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, mapToolkitError(err)
	}

	record, err := p.admin.GetUser(ctx, resp.LocalID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return identityFromRecord(record, resp.IDToken), nil
}

// SignInWithIDToken accepts an ID token obtained by a federated sign-in on the
// client, such as Google.
func (p *FirebaseProvider) SignInWithIDToken(ctx context.Context, idToken string) (*model.Identity, error) {
	return p.Verify(ctx, idToken)
}

func (p *FirebaseProvider) Verify(ctx context.Context, token string) (*model.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}

	verified, err := p.admin.VerifyIDToken(ctx, token)
	if err != nil {
		// IsIDTokenInvalid also covers expired, revoked and disabled.
		if auth.IsIDTokenInvalid(err) {
			logger.Debug("Firebase ID token rejected", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, ErrInvalidToken
		}
		logger.Warn("Firebase ID token could not be verified", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	record, err := p.admin.GetUser(ctx, verified.UID)
	if auth.IsUserNotFound(err) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return identityFromRecord(record, token), nil
}

// SignOut revokes the account's refresh tokens so other devices must sign in
// again.
func (p *FirebaseProvider) SignOut(ctx context.Context, identity *model.Identity) error {
	if identity == nil || identity.UID == "" {
		return nil
	}
	if err := p.admin.RevokeRefreshTokens(ctx, identity.UID); err != nil {
		logger.Error("Failed to revoke firebase refresh tokens", err, map[string]interface{}{
			"uid": identity.UID,
		})
		return err
	}
	return nil
}

func identityFromRecord(record *auth.UserRecord, token string) *model.Identity {
	return &model.Identity{
		UID:         record.UID,
		DisplayName: record.DisplayName,
		Email:       record.Email,
		PhotoURL:    record.PhotoURL,
		Token:       token,
	}
}

func mapToolkitError(err error) error {
	switch {
	case errors.Is(err, identitytoolkit.ErrEmailExists):
		return ErrEmailAlreadyExists
	case errors.Is(err, identitytoolkit.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, identitytoolkit.ErrWeakPassword):
		return ErrWeakPassword
	}
	return err
}
