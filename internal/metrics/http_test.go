package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("backup_repository")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "backup_repository", "/health"))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/v1/repository/file/:filename", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"filename": c.Param("filename")})
	})
	router.POST("/v1/repository/upload", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": true})
	})

	for _, name := range []string{"a.tar.gz", "b.tar.gz"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/repository/file/"+name, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/repository/upload", strings.NewReader("hello")))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	output := scrape(t, provider)

	assertBizMetricLine(t, output, "backup_repository_http_requests_total",
		`method="GET".*path="/v1/repository/file/:filename".*status_code="200"`, "2")
	assertBizMetricLine(t, output, "backup_repository_http_requests_total",
		`method="POST".*path="/v1/repository/upload".*status_code="201"`, "1")
	assert.Contains(t, output, "backup_repository_http_request_body_bytes")
	assert.NotContains(t, output, `path="/health"`)
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/v1/auth/token/:id", sanitizePath("/v1/auth/token/:id"))
	assert.Equal(t, "unknown", sanitizePath(""))
	assert.Equal(t, "/", sanitizePath("/"))
}
