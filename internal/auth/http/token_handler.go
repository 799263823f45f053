package http

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/auth/action"
	"github.com/riotkit-org/backup-repository/internal/auth/http/dto"
	authSecurity "github.com/riotkit-org/backup-repository/internal/auth/security"
	authUseCase "github.com/riotkit-org/backup-repository/internal/auth/usecase"
	"github.com/riotkit-org/backup-repository/internal/crud"
	"github.com/riotkit-org/backup-repository/internal/httputil"
	customValidation "github.com/riotkit-org/backup-repository/internal/validation"
)

// TokenHandler handles HTTP requests for token management.
// Every route expects AuthenticationMiddleware to have stored the acting token.
type TokenHandler struct {
	contextFactory *authSecurity.ContextFactory
	generate       *action.GenerateTokenHandler
	lookup         *action.LookupTokenHandler
	search         *action.SearchTokensHandler
	revoke         *action.RevokeTokenHandler
	roles          *action.ListRolesHandler
	logger         *slog.Logger
}

// NewTokenHandler creates a new token handler.
func NewTokenHandler(
	userManager authUseCase.UserManager,
	contextFactory *authSecurity.ContextFactory,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		contextFactory: contextFactory,
		generate:       action.NewGenerateTokenHandler(userManager),
		lookup:         action.NewLookupTokenHandler(userManager),
		search:         action.NewSearchTokensHandler(userManager),
		revoke:         action.NewRevokeTokenHandler(userManager),
		roles:          action.NewListRolesHandler(),
		logger:         logger,
	}
}

func (h *TokenHandler) securityContext(c *gin.Context) *authSecurity.ManagementContext {
	token, _ := GetToken(c.Request.Context())
	return h.contextFactory.CreateManagementContext(token)
}

// GenerateHandler issues a new token.
// POST /v1/auth/token - Returns 201 Created with the plain token, shown only once.
func (h *TokenHandler) GenerateHandler(c *gin.Context) {
	var req dto.GenerateTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.RespondGin(c, crud.WithValidationErrors(customValidation.FieldErrors(err)), nil, h.logger)
		return
	}

	resp, err := h.generate.Handle(c.Request.Context(), req.ToForm(), h.securityContext(c))
	httputil.RespondGin(c, resp, err, h.logger)
}

// LookupHandler shows a single token.
// GET /v1/auth/token/:id
func (h *TokenHandler) LookupHandler(c *gin.Context) {
	tokenID, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.lookup.Handle(c.Request.Context(), tokenID, h.securityContext(c))
	httputil.RespondGin(c, resp, err, h.logger)
}

// SearchHandler lists tokens filtered by role.
// GET /v1/auth/tokens?role=upload.all&active=true&page=1&limit=20
func (h *TokenHandler) SearchHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	activeOnly := false
	if raw := c.Query("active"); raw != "" {
		activeOnly, err = strconv.ParseBool(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid active parameter: must be a boolean"), h.logger)
			return
		}
	}

	form := &action.SearchTokensForm{
		Role:       c.Query("role"),
		ActiveOnly: activeOnly,
		Page:       page.Number,
		Limit:      page.Limit,
	}

	resp, err := h.search.Handle(c.Request.Context(), form, h.securityContext(c))
	httputil.RespondGin(c, resp, err, h.logger)
}

// RevokeHandler deactivates a token.
// DELETE /v1/auth/token/:id
func (h *TokenHandler) RevokeHandler(c *gin.Context) {
	tokenID, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.revoke.Handle(c.Request.Context(), tokenID, h.securityContext(c))
	httputil.RespondGin(c, resp, err, h.logger)
}

// RolesHandler lists the role vocabulary.
// GET /v1/auth/roles
func (h *TokenHandler) RolesHandler(c *gin.Context) {
	resp, err := h.roles.Handle(h.securityContext(c))
	httputil.RespondGin(c, resp, err, h.logger)
}

func (h *TokenHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	tokenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid token ID format: must be a valid UUID"), h.logger)
		return uuid.Nil, false
	}
	return tokenID, true
}
