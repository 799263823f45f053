// Package command contains event-driven commands of the authentication domain.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	"github.com/riotkit-org/backup-repository/internal/auth/usecase"
	"github.com/riotkit-org/backup-repository/internal/bus"
)

const singleFileTokenCommandName = "SingleFileTokenCommand"

// SingleFileTokenCommand revokes tokens carrying upload.only_once_successful after
// their first successful upload.
type SingleFileTokenCommand struct {
	userManager usecase.UserManager
	logger      *slog.Logger
}

// NewSingleFileTokenCommand creates the command.
func NewSingleFileTokenCommand(userManager usecase.UserManager, logger *slog.Logger) *SingleFileTokenCommand {
	return &SingleFileTokenCommand{
		userManager: userManager,
		logger:      logger,
	}
}

// SupportedPaths lists the event keys the command reacts to.
func (c *SingleFileTokenCommand) SupportedPaths() []bus.EventKey {
	return []bus.EventKey{bus.StorageUploadedOK}
}

// SupportsInput accepts storage upload payloads only.
func (c *SingleFileTokenCommand) SupportsInput(payload bus.Payload, key bus.EventKey) bool {
	_, ok := payload.(bus.StorageUploadedPayload)
	return ok
}

// Handle looks up the uploading token. A token that does not exist is a contract
// violation: the publisher just authenticated it.
func (c *SingleFileTokenCommand) Handle(ctx context.Context, payload bus.Payload, key bus.EventKey) error {
	uploaded, ok := payload.(bus.StorageUploadedPayload)
	if !ok {
		return bus.NewContractViolation(key, singleFileTokenCommandName,
			fmt.Errorf("unexpected payload type %T", payload))
	}

	token, err := c.userManager.Get(ctx, uploaded.TokenID)
	if err != nil {
		if errors.Is(err, authDomain.ErrTokenNotFound) {
			return bus.NewContractViolation(key, singleFileTokenCommandName,
				fmt.Errorf("token %s referenced by the event does not exist", uploaded.TokenID))
		}
		return err
	}

	if !token.Roles.Has(authDomain.RoleUploadOnlyOnceSuccessful) {
		return nil
	}

	err = c.userManager.Revoke(ctx, token)
	if errors.Is(err, authDomain.ErrTokenAlreadyInactive) {
		// a concurrent upload with the same token already revoked it
		return nil
	}
	if err != nil {
		return err
	}

	c.logger.Info("single use token revoked",
		slog.String("token_id", token.ID.String()),
		slog.String("file_id", uploaded.FileID.String()),
	)
	return nil
}
