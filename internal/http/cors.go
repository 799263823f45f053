package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	storageHTTP "github.com/riotkit-org/backup-repository/internal/storage/http"
)

// newCORSMiddleware lets browser clients call the API from the configured origins.
// A single "*" allows any origin without credentials. Returns nil when CORS is
// disabled or no origin is configured.
func newCORSMiddleware(enabled bool, allowOrigins string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOrigins)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured, CORS will not be applied")
		return nil
	}

	config := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{
			"Authorization",
			"Content-Type",
			storageHTTP.PasswordHeader,
		},
		// Downloads are read by scripts in the browser, so their metadata headers are exposed.
		ExposeHeaders: []string{
			"X-Request-Id",
			"ETag",
			"Content-Disposition",
			"Content-Length",
		},
		MaxAge: 12 * time.Hour,
	}

	if len(origins) == 1 && origins[0] == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}

	logger.Info("CORS enabled", slog.Any("origins", origins))

	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list, dropping blanks.
func parseOrigins(value string) []string {
	var origins []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
