package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/riotkit-org/backup-repository/internal/metrics"
)

// Command reacts to one or more event keys.
type Command interface {
	// SupportedPaths returns the event keys the command listens to.
	SupportedPaths() []EventKey
	// SupportsInput decides whether the command handles this particular payload.
	SupportsInput(payload Payload, key EventKey) bool
	// Handle executes the command. Returning a *ContractViolationError aborts the request.
	Handle(ctx context.Context, payload Payload, key EventKey) error
}

// Publisher is the entry point for components completing a triggering action.
type Publisher interface {
	Publish(ctx context.Context, payload Payload) error
}

// Bus dispatches events synchronously to registered commands in registration order.
type Bus struct {
	mu       sync.RWMutex
	commands []Command
	logger   *slog.Logger
	metrics  metrics.BusinessMetrics
}

// New creates an empty bus.
func New(logger *slog.Logger, businessMetrics metrics.BusinessMetrics) *Bus {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		logger:  logger,
		metrics: businessMetrics,
	}
}

// Register appends commands to the dispatch list.
func (b *Bus) Register(commands ...Command) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commands = append(b.commands, commands...)
}

// Publish delivers the payload to every command supporting its key and input.
// All matching commands run even when one of them fails; ordinary errors are joined.
// A malformed payload or a contract violation raised by a command panics after logging.
func (b *Bus) Publish(ctx context.Context, payload Payload) error {
	if payload == nil {
		b.fault(NewContractViolation("", "", errors.New("nil payload")))
	}

	key := payload.Key()
	start := time.Now()

	if err := payload.Validate(); err != nil {
		b.fault(NewContractViolation(key, "", err))
	}

	b.mu.RLock()
	commands := slices.Clone(b.commands)
	b.mu.RUnlock()

	var errs []error
	for _, cmd := range commands {
		if !slices.Contains(cmd.SupportedPaths(), key) || !cmd.SupportsInput(payload, key) {
			continue
		}

		name := fmt.Sprintf("%T", cmd)
		b.logger.Debug("dispatching event",
			slog.String("event", string(key)),
			slog.String("command", name),
		)

		err := cmd.Handle(ctx, payload, key)
		if err == nil {
			continue
		}

		var violation *ContractViolationError
		if errors.As(err, &violation) {
			metrics.Observe(ctx, b.metrics, "bus", string(key), start, metrics.StatusError)
			b.fault(violation)
		}

		b.logger.Error("event command failed",
			slog.String("event", string(key)),
			slog.String("command", name),
			slog.Any("error", err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}

	err := errors.Join(errs...)
	metrics.Observe(ctx, b.metrics, "bus", string(key), start, metrics.StatusOf(err))
	return err
}

func (b *Bus) fault(violation *ContractViolationError) {
	b.logger.Error("event contract violated",
		slog.String("event", string(violation.Key)),
		slog.String("command", violation.Command),
		slog.Any("error", violation.Err),
	)
	panic(violation)
}
