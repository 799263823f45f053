package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// listener owns one net/http server and its lifecycle logging.
type listener struct {
	name   string
	server *http.Server
	logger *slog.Logger
}

func (l *listener) serve(handler http.Handler) error {
	l.server.Handler = handler
	l.logger.Info("starting "+l.name, slog.String("addr", l.server.Addr))

	if err := l.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s: %w", l.name, err)
	}
	return nil
}

func (l *listener) shutdown(ctx context.Context) error {
	l.logger.Info("shutting down " + l.name)
	return l.server.Shutdown(ctx)
}
