package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/aidosk/shopapi/internal/models"
	"github.com/aidosk/shopapi/internal/tokens"
)

const (
	userKey        = "user"
	credentialsKey = "credentials"

	CredentialsUnauthenticated = "unauthenticated"
	CredentialsAuthenticated   = "authenticated"
)

// Identify attaches an identity to every request. A verified bearer token
// that resolves to a user row yields an authenticated identity; everything
// else falls back to guest. It never rejects a request on its own, route
// groups decide what they require.
func Identify(db *gorm.DB, signer *tokens.Signer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(credentialsKey, CredentialsUnauthenticated)

			raw := BearerToken(c)
			if raw == "" {
				return next(c)
			}

			claims, err := signer.Verify(raw)
			if err != nil {
				return next(c)
			}

			var user models.User
			if err := db.WithContext(c.Request().Context()).First(&user, claims.UserID).Error; err != nil {
				return next(c)
			}

			c.Set(userKey, &user)
			c.Set(credentialsKey, CredentialsAuthenticated)
			return next(c)
		}
	}
}

// RequireToken rejects requests that carry no bearer token at all.
func RequireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if BearerToken(c) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
		}
		return next(c)
	}
}

func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(userKey).(*models.User)
	return user, ok
}

func Credentials(c echo.Context) string {
	if s, ok := c.Get(credentialsKey).(string); ok {
		return s
	}
	return CredentialsUnauthenticated
}
