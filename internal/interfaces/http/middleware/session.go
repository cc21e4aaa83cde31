package middleware

import (
	"net/http"

	"github.com/estore/backend/internal/infrastructure/config"
	"github.com/estore/backend/internal/infrastructure/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session context keys
const (
	SessionTokenKey = "session_token"
	// SessionTokenHeader lets non-browser clients carry the token
	// without cookie support
	SessionTokenHeader = "X-Session-Token"
)

// SessionMiddlewareConfig holds configuration for the shopping session
// middleware
type SessionMiddlewareConfig struct {
	Store   session.Store
	Session config.SessionConfig
	Cookie  config.CookieConfig
	Logger  *zap.Logger
}

// SessionMiddleware resolves the anonymous shopping session for the
// request. A valid token from the cookie or header is revalidated,
// which slides its expiry. Guests without a token get a fresh one,
// set as a cookie and echoed in the response header. Authenticated
// requests skip session handling entirely since their cart is keyed
// by user ID.
func SessionMiddleware(cfg SessionMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTUserID(c) != "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		token := extractSessionToken(c, cfg.Session.CookieName)
		if token != "" {
			valid, err := cfg.Store.Validate(ctx, token)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to validate session token", zap.Error(err))
				}
				token = ""
			} else if !valid {
				token = ""
			}
		}

		if token == "" {
			created, err := cfg.Store.Create(ctx)
			if err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to create shopping session", zap.Error(err))
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Could not establish a shopping session",
					},
				})
				return
			}
			token = created
			setSessionCookie(c, cfg, token)
		}

		c.Set(SessionTokenKey, token)
		c.Writer.Header().Set(SessionTokenHeader, token)
		c.Next()
	}
}

func extractSessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	return c.GetHeader(SessionTokenHeader)
}

func setSessionCookie(c *gin.Context, cfg SessionMiddlewareConfig, token string) {
	sameSite := http.SameSiteLaxMode
	switch cfg.Cookie.SameSite {
	case "strict":
		sameSite = http.SameSiteStrictMode
	case "none":
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(
		cfg.Session.CookieName,
		token,
		int(cfg.Session.TTL.Seconds()),
		cfg.Cookie.Path,
		cfg.Cookie.Domain,
		cfg.Cookie.Secure,
		true, // HttpOnly
	)
}

// GetSessionToken retrieves the shopping session token resolved by
// SessionMiddleware. Empty for authenticated requests.
func GetSessionToken(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}
