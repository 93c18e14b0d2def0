// Package bootstrap opens the backing services selected by configuration and
// assembles the catalog repository, mirror and identity provider from them.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/mykitchen/kitchen/config"
	"github.com/mykitchen/kitchen/internal/app/repository"
	"github.com/mykitchen/kitchen/internal/db"
	"github.com/mykitchen/kitchen/internal/identity"
	"github.com/mykitchen/kitchen/internal/mirror"
	kredis "github.com/mykitchen/kitchen/pkg/redis"
	"github.com/mykitchen/kitchen/pkg/identitytoolkit"
	"github.com/mykitchen/kitchen/pkg/logger"
)

// Infra holds the open clients. Fields are nil for services the configuration
// does not use.
type Infra struct {
	cfg *config.Config

	DB           *gorm.DB
	Redis        *kredis.Client
	Firestore    *firestore.Client
	FirebaseAuth *auth.Client

	badger *mirror.BadgerBackend
}

// Open connects to every service the configuration selects. Redis is
// best-effort unless the mirror lives there.
func Open(ctx context.Context, cfg *config.Config) (*Infra, error) {
	inf := &Infra{cfg: cfg}

	if cfg.Catalog.Backend == "postgres" || cfg.Auth.Provider == "local" {
		if err := db.Initialize(&cfg.Database); err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			inf.Close()
			return nil, err
		}
		inf.DB = db.GetDB()
	}

	if cfg.Redis.Addr() != "" {
		client, err := kredis.Connect(&cfg.Redis)
		if err != nil {
			if cfg.Mirror.Backend == "redis" {
				inf.Close()
				return nil, err
			}
			logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
				"error": err.Error(),
			})
		}
		inf.Redis = client
	}

	opts := clientOptions(cfg.Firebase)

	if cfg.Catalog.Backend == "firestore" {
		client, err := firestore.NewClient(ctx, cfg.Firebase.ProjectID, opts...)
		if err != nil {
			inf.Close()
			return nil, fmt.Errorf("firestore.NewClient (project=%s): %w", cfg.Firebase.ProjectID, err)
		}
		inf.Firestore = client
		logger.Info("Firestore connected", map[string]interface{}{
			"project":    cfg.Firebase.ProjectID,
			"collection": cfg.Catalog.Collection,
		})
	}

	if cfg.Auth.Provider == "firebase" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
		if err != nil {
			inf.Close()
			return nil, fmt.Errorf("firebase.NewApp: %w", err)
		}
		authClient, err := app.Auth(ctx)
		if err != nil {
			inf.Close()
			return nil, fmt.Errorf("firebase auth: %w", err)
		}
		inf.FirebaseAuth = authClient
		logger.Info("Firebase Auth initialized", map[string]interface{}{
			"project": cfg.Firebase.ProjectID,
		})
	}

	return inf, nil
}

func clientOptions(cfg config.FirebaseConfig) []option.ClientOption {
	credFile := strings.TrimSpace(cfg.CredentialsFile)
	if credFile == "" {
		return nil
	}
	logger.Debug("Using credentials file for Google clients", nil)
	return []option.ClientOption{option.WithCredentialsFile(credFile)}
}

// RecipeRepository returns the configured catalog backend.
func (inf *Infra) RecipeRepository() repository.RecipeRepository {
	if inf.Firestore != nil {
		return repository.NewRecipeRepositoryFS(inf.Firestore, inf.cfg.Catalog.Collection)
	}
	return repository.NewRecipeRepository(inf.DB)
}

// Mirror opens the configured mirror backend.
func (inf *Infra) Mirror() (*mirror.Mirror, error) {
	mc := inf.cfg.Mirror

	switch mc.Backend {
	case "memory":
		return mirror.New(mirror.NewMemoryBackend(), mc.Timeout), nil
	case "redis":
		if inf.Redis == nil {
			return nil, errors.New("mirror: redis backend selected but redis is not connected")
		}
		return mirror.New(mirror.NewRedisBackend(inf.Redis.Client, mc.KeyPrefix), mc.Timeout), nil
	default:
		backend, err := mirror.OpenBadger(mc.Dir, mc.KeyPrefix)
		if err != nil {
			return nil, err
		}
		inf.badger = backend
		return mirror.New(backend, mc.Timeout), nil
	}
}

// IdentityProvider returns the configured account backend.
func (inf *Infra) IdentityProvider() (identity.Provider, error) {
	if inf.FirebaseAuth != nil {
		toolkit, err := identitytoolkit.NewClient(identitytoolkit.Config{
			APIKey:  inf.cfg.Firebase.WebAPIKey,
			BaseURL: inf.cfg.Firebase.IdentityBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return identity.NewFirebaseProvider(inf.FirebaseAuth, toolkit), nil
	}

	var revoker identity.TokenRevoker
	if inf.Redis != nil {
		revoker = inf.Redis
	}
	return identity.NewLocalProvider(
		repository.NewUserRepository(inf.DB),
		inf.cfg.Auth.JWTSecret,
		inf.cfg.Auth.TokenExpiry,
		revoker,
	), nil
}

// Close releases every open client.
func (inf *Infra) Close() {
	if inf.badger != nil {
		if err := inf.badger.Close(); err != nil {
			logger.Error("Failed to close mirror", err)
		}
	}
	if inf.Firestore != nil {
		if err := inf.Firestore.Close(); err != nil {
			logger.Error("Failed to close Firestore client", err)
		}
	}
	if err := inf.Redis.Close(); err != nil {
		logger.Error("Failed to close Redis connection", err)
	}
	if inf.DB != nil {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}
}
