package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mykitchen/kitchen/internal/app/model"
	"github.com/mykitchen/kitchen/internal/errors"
	"github.com/mykitchen/kitchen/internal/state"
)

const identityKey = "identity"

// SessionSource exposes the current session. The store service satisfies it.
type SessionSource interface {
	Current() state.Session
}

type AuthMiddleware struct {
	sessions SessionSource
}

func NewAuthMiddleware(sessions SessionSource) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// RequireReady answers 503 until session restoration has finished.
func (m *AuthMiddleware) RequireReady() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.sessions.Current().Ready {
			GetLoggerFromContext(c).Debug("Request before auth ready", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.NotReady(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Authenticate requires a ready, signed-in session and a bearer token equal to
// the session token. The token may also come from the "token" query parameter
// for WebSocket upgrades.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		session := m.sessions.Current()
		if !session.Ready {
			errors.NotReady(c)
			c.Abort()
			return
		}
		if !session.SignedIn() {
			log.Warn("No active session", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(session.Identity.Token)) != 1 {
			log.Warn("Token does not match active session", map[string]interface{}{
				"path": c.Request.URL.Path,
				"uid":  session.Identity.UID,
			})
			errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(identityKey, session.Identity)

		log.Debug("Session authenticated", map[string]interface{}{
			"uid": session.Identity.UID,
		})
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query("token")
		return token, token != ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetIdentity returns the identity set by Authenticate.
func GetIdentity(c *gin.Context) (*model.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	id, ok := v.(*model.Identity)
	return id, ok
}

// GetUserID extracts the signed-in user's uid from context
func GetUserID(c *gin.Context) (string, bool) {
	id, ok := GetIdentity(c)
	if !ok {
		return "", false
	}
	return id.UID, true
}
