package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/riotkit-org/backup-repository/internal/auth/usecase"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
	"github.com/riotkit-org/backup-repository/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware requires a Bearer token in the Authorization header.
//
// The token is resolved with UserManager.Authenticate and stored in the request context,
// where handlers read it with GetToken.
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Unknown, revoked or expired token → 401 Unauthorized
//   - Other errors → 500 Internal Server Error
func AuthenticationMiddleware(userManager authUseCase.UserManager, logger *slog.Logger) gin.HandlerFunc {
	return authenticate(userManager, logger, true)
}

// OptionalAuthenticationMiddleware authenticates the request when an Authorization header
// is present and lets anonymous requests through otherwise. A present but invalid token
// is still rejected.
func OptionalAuthenticationMiddleware(userManager authUseCase.UserManager, logger *slog.Logger) gin.HandlerFunc {
	return authenticate(userManager, logger, false)
}

func authenticate(userManager authUseCase.UserManager, logger *slog.Logger, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if !required {
				c.Next()
				return
			}
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		token, err := userManager.Authenticate(c.Request.Context(), plainToken)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithToken(c.Request.Context(), token))

		logger.Debug("authentication successful", slog.String("token_id", token.ID.String()))

		c.Next()
	}
}
