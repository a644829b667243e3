package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/nurpe/freelance-backoffice/internal/config"
	"github.com/nurpe/freelance-backoffice/internal/repository"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// txRunner executes a unit of work in one transaction bounded by a timeout.
// Deadlocks and serialization failures re-run the whole unit; everything
// else that is not a domain error surfaces as ErrInternal.
type txRunner struct {
	store      *repository.Store
	timeout    time.Duration
	maxRetries int
	log        zerolog.Logger
}

func newTxRunner(store *repository.Store, cfg *config.Config, log zerolog.Logger) txRunner {
	timeout := cfg.Payments.TxTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := cfg.Payments.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return txRunner{store: store, timeout: timeout, maxRetries: retries, log: log}
}

func (r txRunner) run(ctx context.Context, op string, fn func(ctx context.Context, tx *repository.Store) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	for attempt := 0; ; attempt++ {
		err := r.store.InTx(ctx, func(tx *repository.Store) error {
			return fn(ctx, tx)
		})
		switch {
		case err == nil:
			return nil
		case isDomainError(err):
			return err
		case attempt < r.maxRetries && isRetryable(err) && ctx.Err() == nil:
			r.log.Warn().Err(err).Str("op", op).Int("attempt", attempt+1).Msg("retrying transaction")
			continue
		case ctx.Err() != nil:
			return fmt.Errorf("%w: %s aborted: %w", ErrInternal, op, ctx.Err())
		default:
			return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
		}
	}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrUnauthorized,
		ErrUnauthenticated,
		ErrInsufficientFunds,
		ErrInvalidDeposit,
		ErrInvalidInput,
		ErrNoData,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}
