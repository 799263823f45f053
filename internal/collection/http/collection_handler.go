// Package http provides HTTP handlers for backup collections.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/riotkit-org/backup-repository/internal/auth/http"
	"github.com/riotkit-org/backup-repository/internal/collection/action"
	"github.com/riotkit-org/backup-repository/internal/collection/domain"
	"github.com/riotkit-org/backup-repository/internal/collection/http/dto"
	collectionSecurity "github.com/riotkit-org/backup-repository/internal/collection/security"
	"github.com/riotkit-org/backup-repository/internal/collection/usecase"
	"github.com/riotkit-org/backup-repository/internal/crud"
	"github.com/riotkit-org/backup-repository/internal/httputil"
	customValidation "github.com/riotkit-org/backup-repository/internal/validation"
)

// CollectionHandler handles HTTP requests for collection management.
type CollectionHandler struct {
	manager        usecase.CollectionManager
	contextFactory *collectionSecurity.ContextFactory
	create         *action.CreateHandler
	edit           *action.EditHandler
	fetch          *action.FetchHandler
	list           *action.ListHandler
	remove         *action.DeleteHandler
	logger         *slog.Logger
}

// NewCollectionHandler creates a new collection handler.
func NewCollectionHandler(
	manager usecase.CollectionManager,
	contextFactory *collectionSecurity.ContextFactory,
	logger *slog.Logger,
) *CollectionHandler {
	return &CollectionHandler{
		manager:        manager,
		contextFactory: contextFactory,
		create:         action.NewCreateHandler(manager),
		edit:           action.NewEditHandler(manager),
		fetch:          action.NewFetchHandler(),
		list:           action.NewListHandler(manager),
		remove:         action.NewDeleteHandler(manager),
		logger:         logger,
	}
}

func (h *CollectionHandler) securityContext(c *gin.Context) *collectionSecurity.ManagementContext {
	token, _ := authHTTP.GetToken(c.Request.Context())
	return h.contextFactory.CreateCollectionManagementContext(token)
}

// CreateHandler creates a collection.
// POST /v1/collections
func (h *CollectionHandler) CreateHandler(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	resp, err := h.create.Handle(c.Request.Context(), &action.CreateForm{Input: req.ToInput()}, h.securityContext(c))
	httputil.RespondGin(c, resp, err, h.logger)
}

// EditHandler changes collection settings.
// PUT /v1/collections/:id
func (h *CollectionHandler) EditHandler(c *gin.Context) {
	collection, ok := h.resolve(c)
	if !ok {
		return
	}

	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	form := &action.EditForm{Collection: collection, Input: req.ToInput()}
	resp, err := h.edit.Handle(c.Request.Context(), form, h.securityContext(c))
	httputil.RespondGin(c, resp, err, h.logger)
}

// FetchHandler shows a collection.
// GET /v1/collections/:id
func (h *CollectionHandler) FetchHandler(c *gin.Context) {
	collection, ok := h.resolve(c)
	if !ok {
		return
	}

	resp, err := h.fetch.Handle(collection, h.securityContext(c))
	httputil.RespondGin(c, resp, err, h.logger)
}

// ListHandler lists collections.
// GET /v1/collections?page=1&limit=20
func (h *CollectionHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	form := &action.ListForm{Page: page.Number, Limit: page.Limit}
	resp, err := h.list.Handle(c.Request.Context(), form, h.securityContext(c))
	httputil.RespondGin(c, resp, err, h.logger)
}

// DeleteHandler removes a collection.
// DELETE /v1/collections/:id
func (h *CollectionHandler) DeleteHandler(c *gin.Context) {
	collection, ok := h.resolve(c)
	if !ok {
		return
	}

	resp, err := h.remove.Handle(c.Request.Context(), collection, h.securityContext(c))
	httputil.RespondGin(c, resp, err, h.logger)
}

func (h *CollectionHandler) bindRequest(c *gin.Context) (*dto.CollectionRequest, bool) {
	var req dto.CollectionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return nil, false
	}

	if err := req.Validate(); err != nil {
		httputil.RespondGin(c, crud.WithValidationErrors(customValidation.FieldErrors(err)), nil, h.logger)
		return nil, false
	}

	return &req, true
}

// resolve loads the collection named by the id parameter. A missing collection
// resolves to nil so the action decides how to report it.
func (h *CollectionHandler) resolve(c *gin.Context) (*domain.Collection, bool) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid collection ID format: must be a valid UUID"), h.logger)
		return nil, false
	}

	collection, err := h.load(c.Request.Context(), collectionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return nil, false
	}
	return collection, true
}

func (h *CollectionHandler) load(ctx context.Context, collectionID uuid.UUID) (*domain.Collection, error) {
	collection, err := h.manager.Get(ctx, collectionID)
	if errors.Is(err, domain.ErrCollectionNotFound) {
		return nil, nil
	}
	return collection, err
}
