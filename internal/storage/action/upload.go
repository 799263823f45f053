package action

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/riotkit-org/backup-repository/internal/bus"
	"github.com/riotkit-org/backup-repository/internal/crud"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
	"github.com/riotkit-org/backup-repository/internal/storage/domain"
	storageSecurity "github.com/riotkit-org/backup-repository/internal/storage/security"
	"github.com/riotkit-org/backup-repository/internal/storage/service"
	"github.com/riotkit-org/backup-repository/internal/storage/usecase"
)

// Fetcher downloads remote files.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// uploader holds the steps shared by every upload flavor.
type uploader struct {
	manager   usecase.FileManager
	publisher bus.Publisher
}

// prepare checks the upload attributes against the context before any content is read.
func (u *uploader) prepare(
	form *UploadForm,
	securityContext *storageSecurity.UploadContext,
) (*domain.Upload, *crud.Response) {
	filename, err := domain.NewFilename(form.Filename)
	if err != nil {
		return nil, crud.WithValidationErrors(map[string]string{"filename": err.Error()})
	}

	if !securityContext.AreTagsAllowed(form.Tags) {
		return nil, crud.WithDomainError(
			"Current token does not allow to upload files with those tags",
			"tags", domain.CodeTagsNotAllowed, form.Tags,
		)
	}

	if !securityContext.IsPasswordAllowed(form.Password) {
		return nil, crud.WithDomainError(
			"Current token does not allow to protect files with a password",
			"password", domain.CodePasswordNotAllowed, nil,
		)
	}

	return &domain.Upload{
		Filename:   filename,
		Tags:       form.Tags,
		Public:     form.Public,
		Password:   form.Password,
		UploadedBy: securityContext.ActorID(),
		Overwrite:  securityContext.CanOverwriteFile(),
	}, nil
}

// store streams the content and announces the completed upload once its metadata is committed.
func (u *uploader) store(
	ctx context.Context,
	upload *domain.Upload,
	content io.Reader,
	securityContext *storageSecurity.UploadContext,
) (*crud.Response, error) {
	file, err := u.manager.Store(ctx, upload, content, securityContext)
	if err != nil {
		if resp, ok := crud.FromDomainError(err); ok {
			return resp, nil
		}
		return nil, err
	}

	err = u.publisher.Publish(ctx, bus.StorageUploadedPayload{
		TokenID:  securityContext.ActorID(),
		FileID:   file.ID,
		Filename: file.Filename.String(),
	})
	if err != nil {
		return nil, err
	}

	return crud.Success(NewFileView(file), http.StatusCreated), nil
}

// UploadByPostHandler stores the file sent in the request body.
type UploadByPostHandler struct {
	uploader
}

// NewUploadByPostHandler creates an UploadByPostHandler.
func NewUploadByPostHandler(manager usecase.FileManager, publisher bus.Publisher) *UploadByPostHandler {
	return &UploadByPostHandler{uploader: uploader{manager: manager, publisher: publisher}}
}

// Handle stores the uploaded body.
func (h *UploadByPostHandler) Handle(
	ctx context.Context,
	form *UploadByPostForm,
	securityContext *storageSecurity.UploadContext,
) (*crud.Response, error) {
	if !securityContext.CanUpload() {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to upload files")
	}

	upload, rejected := h.prepare(&form.UploadForm, securityContext)
	if rejected != nil {
		return rejected, nil
	}

	return h.store(ctx, upload, form.Content, securityContext)
}

// UploadByURLHandler downloads the file from a remote location and stores it.
type UploadByURLHandler struct {
	uploader
	fetcher Fetcher
}

// NewUploadByURLHandler creates an UploadByURLHandler.
func NewUploadByURLHandler(
	manager usecase.FileManager,
	publisher bus.Publisher,
	fetcher Fetcher,
) *UploadByURLHandler {
	return &UploadByURLHandler{
		uploader: uploader{manager: manager, publisher: publisher},
		fetcher:  fetcher,
	}
}

// Handle downloads the remote file and stores it.
func (h *UploadByURLHandler) Handle(
	ctx context.Context,
	form *UploadByURLForm,
	securityContext *storageSecurity.UploadContext,
) (*crud.Response, error) {
	if !securityContext.CanUpload() {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to upload files")
	}

	source, err := url.Parse(form.URL)
	if err != nil || (source.Scheme != "http" && source.Scheme != "https") || source.Host == "" {
		return crud.WithValidationErrors(map[string]string{"url": "must be an absolute http or https URL"}), nil
	}

	uploadForm := form.UploadForm
	if uploadForm.Filename == "" {
		uploadForm.Filename = path.Base(source.Path)
	}

	upload, rejected := h.prepare(&uploadForm, securityContext)
	if rejected != nil {
		return rejected, nil
	}

	content, err := h.fetcher.Fetch(ctx, source.String())
	if err != nil {
		if errors.Is(err, service.ErrSourceNotReachable) {
			return crud.WithDomainError(
				"Cannot download the file from the given URL",
				"url", domain.CodeSourceNotReachable, form.URL,
			), nil
		}
		return nil, err
	}
	defer func() {
		_ = content.Close()
	}()

	return h.store(ctx, upload, content, securityContext)
}
