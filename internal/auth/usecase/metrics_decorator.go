package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/riotkit-org/backup-repository/internal/auth/domain"
	"github.com/riotkit-org/backup-repository/internal/metrics"
)

type userManagerWithMetrics struct {
	next    UserManager
	metrics metrics.BusinessMetrics
}

// NewUserManagerWithMetrics wraps a UserManager with metrics recording.
func NewUserManagerWithMetrics(manager UserManager, m metrics.BusinessMetrics) UserManager {
	return &userManagerWithMetrics{
		next:    manager,
		metrics: m,
	}
}

// Generate records metrics around UserManager.Generate.
func (u *userManagerWithMetrics) Generate(
	ctx context.Context,
	input *authDomain.GenerateTokenInput,
) (*authDomain.GenerateTokenOutput, error) {
	start := time.Now()
	output, err := u.next.Generate(ctx, input)
	metrics.Observe(ctx, u.metrics, "auth", "token_generate", start, metrics.StatusOf(err))
	return output, err
}

// Get records metrics around UserManager.Get.
func (u *userManagerWithMetrics) Get(ctx context.Context, tokenID uuid.UUID) (*authDomain.Token, error) {
	start := time.Now()
	token, err := u.next.Get(ctx, tokenID)
	metrics.Observe(ctx, u.metrics, "auth", "token_get", start, metrics.StatusOf(err))
	return token, err
}

// Search records metrics around UserManager.Search.
func (u *userManagerWithMetrics) Search(
	ctx context.Context,
	filter authDomain.SearchFilter,
) ([]*authDomain.Token, error) {
	start := time.Now()
	tokens, err := u.next.Search(ctx, filter)
	metrics.Observe(ctx, u.metrics, "auth", "token_search", start, metrics.StatusOf(err))
	return tokens, err
}

// Revoke records metrics around UserManager.Revoke.
func (u *userManagerWithMetrics) Revoke(ctx context.Context, token *authDomain.Token) error {
	start := time.Now()
	err := u.next.Revoke(ctx, token)
	metrics.Observe(ctx, u.metrics, "auth", "token_revoke", start, metrics.StatusOf(err))
	return err
}

// Authenticate records metrics around UserManager.Authenticate.
func (u *userManagerWithMetrics) Authenticate(ctx context.Context, plainToken string) (*authDomain.Token, error) {
	start := time.Now()
	token, err := u.next.Authenticate(ctx, plainToken)
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusRejected
	}
	metrics.Observe(ctx, u.metrics, "auth", "token_authenticate", start, status)
	return token, err
}
