package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/riotkit-org/backup-repository/internal/auth/action"
	authSecurity "github.com/riotkit-org/backup-repository/internal/auth/security"
	authUseCase "github.com/riotkit-org/backup-repository/internal/auth/usecase"
)

// RunRevokeToken deactivates a token from the console.
//
// Requirements: Database must be migrated and accessible.
func RunRevokeToken(
	ctx context.Context,
	userManager authUseCase.UserManager,
	logger *slog.Logger,
	writer io.Writer,
	id string,
	format string,
) error {
	tokenID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid token id %q: %w", id, err)
	}

	shellContext := authSecurity.NewContextFactory().CreateShellContext()

	resp, err := action.NewRevokeTokenHandler(userManager).Handle(ctx, tokenID, shellContext)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if !resp.IsSuccess() {
		return responseError(resp)
	}

	if format == "json" {
		if err := writeJSON(writer, resp.Data); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Token %s revoked\n", tokenID)
	}

	logger.Info("token revoked", slog.String("token_id", tokenID.String()))

	return nil
}
