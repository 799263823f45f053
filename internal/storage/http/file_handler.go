// Package http provides HTTP handlers for the file repository.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/riotkit-org/backup-repository/internal/auth/http"
	"github.com/riotkit-org/backup-repository/internal/bus"
	"github.com/riotkit-org/backup-repository/internal/crud"
	"github.com/riotkit-org/backup-repository/internal/httputil"
	"github.com/riotkit-org/backup-repository/internal/storage/action"
	"github.com/riotkit-org/backup-repository/internal/storage/http/dto"
	storageSecurity "github.com/riotkit-org/backup-repository/internal/storage/security"
	"github.com/riotkit-org/backup-repository/internal/storage/usecase"
	customValidation "github.com/riotkit-org/backup-repository/internal/validation"
)

// PasswordHeader carries the password of a protected file as an alternative to the query string.
const PasswordHeader = "X-File-Password"

// FileHandler handles HTTP requests for storing and reading files.
type FileHandler struct {
	contextFactory *storageSecurity.ContextFactory
	uploadByPost   *action.UploadByPostHandler
	uploadByURL    *action.UploadByURLHandler
	list           *action.FilesListingHandler
	view           *action.ViewFileHandler
	logger         *slog.Logger
}

// NewFileHandler creates a new file handler.
func NewFileHandler(
	manager usecase.FileManager,
	publisher bus.Publisher,
	fetcher action.Fetcher,
	contextFactory *storageSecurity.ContextFactory,
	logger *slog.Logger,
) *FileHandler {
	return &FileHandler{
		contextFactory: contextFactory,
		uploadByPost:   action.NewUploadByPostHandler(manager, publisher),
		uploadByURL:    action.NewUploadByURLHandler(manager, publisher, fetcher),
		list:           action.NewFilesListingHandler(manager),
		view:           action.NewViewFileHandler(manager),
		logger:         logger,
	}
}

// UploadHandler stores the raw request body.
// POST /v1/repository/upload?filename=backup.tar.gz&tags=db&public=false
func (h *FileHandler) UploadHandler(c *gin.Context) {
	var req dto.UploadRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondGin(c, crud.WithValidationErrors(customValidation.FieldErrors(err)), nil, h.logger)
		return
	}

	token, _ := authHTTP.GetToken(c.Request.Context())
	form := &action.UploadByPostForm{UploadForm: req.ToForm(), Content: c.Request.Body}

	resp, err := h.uploadByPost.Handle(c.Request.Context(), form, h.contextFactory.CreateUploadContext(token))
	httputil.RespondGin(c, resp, err, h.logger)
}

// UploadByURLHandler downloads a remote file into the repository.
// POST /v1/repository/upload-by-url
func (h *FileHandler) UploadByURLHandler(c *gin.Context) {
	var req dto.UploadByURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondGin(c, crud.WithValidationErrors(customValidation.FieldErrors(err)), nil, h.logger)
		return
	}

	token, _ := authHTTP.GetToken(c.Request.Context())

	resp, err := h.uploadByURL.Handle(c.Request.Context(), req.ToForm(), h.contextFactory.CreateUploadContext(token))
	httputil.RespondGin(c, resp, err, h.logger)
}

// ListHandler lists files.
// GET /v1/repository/files?tags=db&mime_types=application/gzip&search=dump&only_mine=true&page=1&limit=20
func (h *FileHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.ListFilesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondGin(c, crud.WithValidationErrors(customValidation.FieldErrors(err)), nil, h.logger)
		return
	}

	token, _ := authHTTP.GetToken(c.Request.Context())
	form := req.ToForm(page.Number, page.Limit)

	resp, err := h.list.Handle(c.Request.Context(), form, h.contextFactory.CreateListingContextFromTokenAndForm(token, form))
	httputil.RespondGin(c, resp, err, h.logger)
}

// ViewHandler streams a file. Authentication is optional.
// GET /v1/repository/file/:filename?password=secret
func (h *FileHandler) ViewHandler(c *gin.Context) {
	form := &action.ViewFileForm{
		Filename: c.Param("filename"),
		Password: c.Query("password"),
	}
	if form.Password == "" {
		form.Password = c.GetHeader(PasswordHeader)
	}

	token, _ := authHTTP.GetToken(c.Request.Context())

	resp, err := h.view.Handle(c.Request.Context(), form, h.contextFactory.CreateViewingContextFromTokenAndForm(token, form))
	if err != nil || resp == nil || !resp.Status {
		httputil.RespondGin(c, resp, err, h.logger)
		return
	}

	download, ok := resp.Data.(*action.FileDownload)
	if !ok {
		httputil.HandleErrorGin(c, fmt.Errorf("unexpected view payload %T", resp.Data), h.logger)
		return
	}
	defer func() {
		if err := download.Content.Close(); err != nil {
			h.logger.Warn("failed to close file content", slog.String("filename", form.Filename), slog.Any("error", err))
		}
	}()

	c.DataFromReader(http.StatusOK, download.File.Size, download.File.MimeType, download.Content, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", download.File.Filename),
		"ETag":                fmt.Sprintf("%q", download.File.ContentHash),
	})
}
