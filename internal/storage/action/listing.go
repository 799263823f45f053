package action

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/crud"
	"github.com/riotkit-org/backup-repository/internal/database"
	apperrors "github.com/riotkit-org/backup-repository/internal/errors"
	"github.com/riotkit-org/backup-repository/internal/storage/domain"
	storageSecurity "github.com/riotkit-org/backup-repository/internal/storage/security"
	"github.com/riotkit-org/backup-repository/internal/storage/usecase"
)

// FilesListingHandler lists stored files.
type FilesListingHandler struct {
	manager usecase.FileManager
}

// NewFilesListingHandler creates a FilesListingHandler.
func NewFilesListingHandler(manager usecase.FileManager) *FilesListingHandler {
	return &FilesListingHandler{manager: manager}
}

// Handle narrows the listing to the acting token's files when it may not list all of them,
// and hides password protected files of others unless the token may see them.
func (h *FilesListingHandler) Handle(
	ctx context.Context,
	form *FilesListingForm,
	securityContext *storageSecurity.ReadContext,
) (*crud.Response, error) {
	if !securityContext.CanListFiles() {
		return nil, apperrors.NewAuthorizationError("Current token does not allow to list files")
	}

	filter := domain.ListFilter{
		Tags:      form.Tags,
		MimeTypes: form.MimeTypes,
		Search:    form.Search,
		Offset:    database.PageOffset(form.Page, form.Limit),
		Limit:     form.Limit,
	}
	if form.OnlyMine || !securityContext.CanListAllFiles() {
		filter.UploadedBy = securityContext.ActorID()
	}
	if filter.UploadedBy == uuid.Nil && !securityContext.CanSeePasswordProtectedFiles() {
		filter.ExcludePasswordProtected = true
	}

	files, err := h.manager.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]FileView, 0, len(files))
	for _, file := range files {
		views = append(views, NewFileView(file))
	}

	return crud.Success(map[string]any{
		"files": views,
		"page":  form.Page,
		"limit": form.Limit,
	}, http.StatusOK), nil
}
