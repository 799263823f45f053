package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/riotkit-org/backup-repository/internal/auth/action"
	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	authSecurity "github.com/riotkit-org/backup-repository/internal/auth/security"
	authUseCase "github.com/riotkit-org/backup-repository/internal/auth/usecase"
)

// CreateTokenOptions holds the command line input of create-token.
type CreateTokenOptions struct {
	ID          string
	Roles       []string
	Tags        []string
	MimeTypes   []string
	MaxFileSize int64
	// Expires is an RFC3339 timestamp or a duration relative to now, like "720h".
	Expires string
	Format  string
}

// RunCreateToken issues a token with administrator rights of the console.
// The plain token is printed once and cannot be recovered later.
//
// Requirements: Database must be migrated and accessible.
func RunCreateToken(
	ctx context.Context,
	userManager authUseCase.UserManager,
	logger *slog.Logger,
	writer io.Writer,
	options CreateTokenOptions,
) error {
	expiresAt, err := parseExpiration(options.Expires, time.Now().UTC())
	if err != nil {
		return err
	}

	form := &action.GenerateTokenForm{
		ID:    options.ID,
		Roles: options.Roles,
		Data: authDomain.TokenData{
			Tags:               options.Tags,
			AllowedMimeTypes:   options.MimeTypes,
			MaxAllowedFileSize: options.MaxFileSize,
		},
		ExpiresAt: expiresAt,
	}

	shellContext := authSecurity.NewContextFactory().CreateShellContext()

	resp, err := action.NewGenerateTokenHandler(userManager).Handle(ctx, form, shellContext)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	if !resp.IsSuccess() {
		return responseError(resp)
	}

	generated, ok := resp.Data.(action.GeneratedTokenView)
	if !ok {
		return fmt.Errorf("unexpected response payload %T", resp.Data)
	}

	if options.Format == "json" {
		if err := writeJSON(writer, generated); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(writer, "Token created successfully!")
		_, _ = fmt.Fprintf(writer, "Token ID: %s\n", generated.ID)
		_, _ = fmt.Fprintf(writer, "Roles: %s\n", strings.Join(generated.Roles, ", "))
		_, _ = fmt.Fprintf(writer, "Expires at: %s\n", generated.ExpiresAt.Format(time.RFC3339))
		_, _ = fmt.Fprintf(writer, "Token: %s\n", generated.Token)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The token is shown only once. Store it securely.")
	}

	logger.Info("token created",
		slog.String("token_id", generated.ID.String()),
		slog.Any("roles", generated.Roles),
	)

	return nil
}

// parseExpiration accepts an absolute RFC3339 time or a duration added to now.
// An empty value leaves the default lifetime to the user manager.
func parseExpiration(value string, now time.Time) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if at, err := time.Parse(time.RFC3339, value); err == nil {
		return &at, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return nil, fmt.Errorf("invalid expiration %q: use an RFC3339 time or a positive duration", value)
	}
	at := now.Add(duration)
	return &at, nil
}
