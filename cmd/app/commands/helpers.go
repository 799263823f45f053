// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/riotkit-org/backup-repository/internal/app"
	"github.com/riotkit-org/backup-repository/internal/crud"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// responseError turns a rejected action response into an error readable on a terminal.
func responseError(resp *crud.Response) error {
	if resp == nil {
		return fmt.Errorf("action returned no response")
	}

	var details []string
	if resp.Error != nil && resp.Error.Field != "" {
		details = append(details, fmt.Sprintf("%s: %s", resp.Error.Field, resp.Error.Code))
	}
	fields := make([]string, 0, len(resp.Errors))
	for field := range resp.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		details = append(details, fmt.Sprintf("%s: %s", field, resp.Errors[field]))
	}

	if len(details) == 0 {
		return fmt.Errorf("%s", resp.Message)
	}
	return fmt.Errorf("%s (%s)", resp.Message, strings.Join(details, ", "))
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
