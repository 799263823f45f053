package action

import (
	"context"
	"errors"
	"net/http"

	"github.com/riotkit-org/backup-repository/internal/crud"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
	"github.com/riotkit-org/backup-repository/internal/storage/domain"
	storageSecurity "github.com/riotkit-org/backup-repository/internal/storage/security"
	"github.com/riotkit-org/backup-repository/internal/storage/usecase"
)

// ViewFileHandler opens a stored file for download.
type ViewFileHandler struct {
	manager usecase.FileManager
}

// NewViewFileHandler creates a ViewFileHandler.
func NewViewFileHandler(manager usecase.FileManager) *ViewFileHandler {
	return &ViewFileHandler{manager: manager}
}

// Handle returns a *FileDownload on success. An invalid name cannot exist, so it is reported as not found.
func (h *ViewFileHandler) Handle(
	ctx context.Context,
	form *ViewFileForm,
	securityContext *storageSecurity.ReadContext,
) (*crud.Response, error) {
	filename, err := domain.NewFilename(form.Filename)
	if err != nil {
		return crud.NotFound("File not found"), nil
	}

	file, err := h.manager.GetByFilename(ctx, filename)
	if errors.Is(err, domain.ErrFileNotFound) {
		return crud.NotFound("File not found"), nil
	}
	if err != nil {
		return nil, err
	}

	if !securityContext.CanViewFile(file) {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to view this file")
	}

	content, err := h.manager.Open(ctx, file)
	if err != nil {
		return nil, err
	}

	return crud.Success(&FileDownload{File: NewFileView(file), Content: content}, http.StatusOK), nil
}
