// Package integration provides end-to-end tests of the HTTP API against PostgreSQL and MySQL.
// Tests are skipped in short mode and when the test database is not reachable.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riotkit-org/backup-repository/internal/app"
	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	"github.com/riotkit-org/backup-repository/internal/config"
	"github.com/riotkit-org/backup-repository/internal/testutil"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container  *app.Container
	db         *sql.DB
	server     *httptest.Server
	adminToken string
	dbDriver   string
}

// envelope mirrors the JSON result of every action endpoint.
type envelope struct {
	Status bool              `json:"status"`
	Data   json.RawMessage   `json:"data"`
	Errors map[string]string `json:"errors"`
	Error  *struct {
		Code string `json:"code"`
	} `json:"error"`
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body io.Reader,
	token string,
) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, ctx.server.URL+path, body)
	require.NoError(t, err, "failed to create request")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

func (ctx *integrationTestContext) makeJSONRequest(
	t *testing.T,
	method, path string,
	body any,
	token string,
) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		reader = bytes.NewReader(encoded)
	}

	resp, raw := ctx.makeRequest(t, method, path, reader, token)

	var result envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result), "unexpected body: %s", raw)
	}
	return resp, result
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := testutil.SetupDB(t, dbDriver)

	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   testutil.TestDSN(dbDriver),
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",
		AuthTokenExpiration:  time.Hour,
		MetricsNamespace:     "integration",
		StorageURL:           "mem://",
		UploadMaxFileSize:    1 << 20,
		URLFetchTimeout:      time.Second,
	}

	container := app.NewContainer(cfg)

	userManager, err := container.UserManager()
	require.NoError(t, err, "failed to get user manager")

	admin, err := userManager.Generate(context.Background(), &authDomain.GenerateTokenInput{
		Roles: authDomain.Roles{authDomain.RoleAdministrator},
	})
	require.NoError(t, err, "failed to create administrator token")

	server, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	return &integrationTestContext{
		container:  container,
		db:         db,
		server:     httptest.NewServer(server.GetHandler()),
		adminToken: admin.PlainToken,
		dbDriver:   dbDriver,
	}
}

// teardownIntegrationTest releases all resources of the test context.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	ctx.server.Close()
	if err := ctx.container.Shutdown(context.Background()); err != nil {
		t.Logf("Warning: failed to shutdown container: %v", err)
	}
	testutil.TeardownDB(t, ctx.db)
}

var drivers = []struct {
	name     string
	dbDriver string
}{
	{"PostgreSQL", "postgres"},
	{"MySQL", "mysql"},
}

func TestIntegration_Health_BasicChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			resp, _ := ctx.makeRequest(t, http.MethodGet, "/health", nil, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, body := ctx.makeRequest(t, http.MethodGet, "/ready", nil, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(body), `"ready"`)
		})
	}
}

func TestIntegration_Storage_SingleUseTokenFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			var uploaderToken string

			t.Run("01_GenerateSingleUseToken", func(t *testing.T) {
				resp, result := ctx.makeJSONRequest(t, http.MethodPost, "/v1/auth/token", map[string]any{
					"roles": []string{"upload.documents", "upload.only_once_successful"},
					"tags":  []string{"reports"},
				}, ctx.adminToken)
				require.Equal(t, http.StatusCreated, resp.StatusCode)

				var generated struct {
					Token string `json:"token"`
				}
				require.NoError(t, json.Unmarshal(result.Data, &generated))
				require.True(t, strings.HasPrefix(generated.Token, "brt_"))
				uploaderToken = generated.Token
			})

			t.Run("02_RejectedUploadKeepsToken", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost,
					"/v1/repository/upload?filename=notes.txt&tags=invoices", strings.NewReader("x"), uploaderToken)
				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

				var result envelope
				require.NoError(t, json.Unmarshal(body, &result))
				require.NotNil(t, result.Error)
				assert.Equal(t, "tags_not_allowed", result.Error.Code)
			})

			t.Run("03_UploadRevokesToken", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodPost,
					"/v1/repository/upload?filename=notes.txt&tags=reports&public=true",
					strings.NewReader("quarterly report"), uploaderToken)
				require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

				resp, _ = ctx.makeRequest(t, http.MethodPost,
					"/v1/repository/upload?filename=second.txt&tags=reports",
					strings.NewReader("second"), uploaderToken)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			})

			t.Run("04_PublicDownload", func(t *testing.T) {
				resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/repository/file/notes.txt", nil, "")
				require.Equal(t, http.StatusOK, resp.StatusCode)
				assert.Equal(t, "quarterly report", string(body))
				assert.NotEmpty(t, resp.Header.Get("ETag"))
			})

			t.Run("05_AdministratorListsFiles", func(t *testing.T) {
				resp, result := ctx.makeJSONRequest(t, http.MethodGet,
					"/v1/repository/files?tags=reports", nil, ctx.adminToken)
				require.Equal(t, http.StatusOK, resp.StatusCode)

				var listing struct {
					Files []struct {
						Filename string   `json:"filename"`
						Tags     []string `json:"tags"`
					} `json:"files"`
				}
				require.NoError(t, json.Unmarshal(result.Data, &listing))
				require.Len(t, listing.Files, 1)
				assert.Equal(t, "notes.txt", listing.Files[0].Filename)
				assert.Equal(t, []string{"reports"}, listing.Files[0].Tags)
			})

			t.Run("06_MissingFile", func(t *testing.T) {
				resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/repository/file/absent.txt", nil, "")
				assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			})
		})
	}
}

func TestIntegration_Collections_CompleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, tc := range drivers {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupIntegrationTest(t, tc.dbDriver)
			defer teardownIntegrationTest(t, ctx)

			resp, result := ctx.makeJSONRequest(t, http.MethodPost, "/v1/collections", map[string]any{
				"name":                 "nightly database",
				"strategy":             "delete_oldest_when_adding_new",
				"max_backups_count":    5,
				"max_one_version_size": 1 << 20,
				"max_collection_size":  5 << 20,
			}, ctx.adminToken)
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			var created struct {
				ID string `json:"id"`
			}
			require.NoError(t, json.Unmarshal(result.Data, &created))
			require.NotEmpty(t, created.ID)

			resp, _ = ctx.makeJSONRequest(t, http.MethodGet, "/v1/collections/"+created.ID, nil, ctx.adminToken)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, _ = ctx.makeJSONRequest(t, http.MethodDelete, "/v1/collections/"+created.ID, nil, ctx.adminToken)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, _ = ctx.makeJSONRequest(t, http.MethodGet, "/v1/collections/"+created.ID, nil, ctx.adminToken)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}
