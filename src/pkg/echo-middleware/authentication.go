// Package echomw provides Echo middlewares used by the statement analyzer server.
package echomw

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"statement-analyzer/src/pkg/statement"
)

const (
	// Env var read by this middleware.
	EnvBearerToken = "STATEMENT_ANALYZER_BEARER_TOKEN"

	// Realm for WWW-Authenticate header.
	authRealm = "statement-analyzer"
)

/*
RequireBearerToken validates Authorization: Bearer <token> against expected.
An empty expected token rejects every request.
*/
func RequireBearerToken(expected string) echo.MiddlewareFunc {
	expected = strings.TrimSpace(expected)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if expected == "" {
				// Fail closed if not configured.
				return unauthorized(c)
			}

			auth := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			// Case-insensitive scheme per RFC; allow extra spaces.
			const bearer = "bearer "
			if len(auth) < len(bearer) || !strings.EqualFold(auth[:len(bearer)], bearer) {
				return unauthorized(c)
			}
			received := strings.TrimSpace(auth[len(bearer):])
			if received == "" {
				return unauthorized(c)
			}

			// Constant-time compare.
			if subtle.ConstantTimeCompare([]byte(received), []byte(expected)) != 1 {
				return unauthorized(c)
			}
			return next(c)
		}
	}
}

// BearerTokenFromEnv reads the expected token from STATEMENT_ANALYZER_BEARER_TOKEN.
func BearerTokenFromEnv() string {
	return strings.TrimSpace(os.Getenv(EnvBearerToken))
}

func unauthorized(c echo.Context) error {
	LogRouteAccess(c, tl.Info, "Unauthorized access attempt", palette.Yellow) // Log the visit

	// Helpful for clients/tools; avoids browser basic-auth popups.
	c.Response().Header().Set("WWW-Authenticate", `Bearer realm="`+authRealm+`"`)
	return c.JSON(http.StatusUnauthorized, statement.Failure("Unauthorized"))
}
