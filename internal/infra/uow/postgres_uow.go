package uow

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"librarium/internal/infra"
	"librarium/internal/infra/db"
	"librarium/internal/infra/readstore"
	"librarium/internal/infra/repository"
	"librarium/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxRetries     = 3
	baseRetryDelay = 10 * time.Millisecond
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// postgresUnitOfWork runs command transactions at serializable
// isolation so two concurrent claims on the same copy cannot both
// commit. Serialization conflicts are retried with jittered backoff.
type postgresUnitOfWork struct {
	pool *pgxpool.Pool
}

func NewPostgresUnitOfWork(pool *pgxpool.Pool) shared.UnitOfWork {
	return &postgresUnitOfWork{pool: pool}
}

func (u *postgresUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay(attempt)):
			}
		}

		err := u.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return infra.WrapRepoErr("transaction retries exhausted", lastErr)
}

func (u *postgresUnitOfWork) runOnce(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return infra.WrapRepoErr("failed to begin transaction", err)
	}
	defer func() {
		// No-op when the transaction already committed.
		_ = pgTx.Rollback(ctx)
	}()

	if err := fn(ctx, newTx(pgTx)); err != nil {
		return err
	}
	if err := pgTx.Commit(ctx); err != nil {
		return infra.WrapRepoErr("failed to commit transaction", err)
	}
	return nil
}

func (u *postgresUnitOfWork) CommandReads() shared.CommandReads {
	return readstore.NewCommandReads(u.pool)
}

func retryDelay(attempt int) time.Duration {
	backoff := baseRetryDelay << uint(attempt-1)
	jitter := time.Duration(rand.Int63n(int64(baseRetryDelay)))
	return backoff + jitter
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

// tx hands out transaction-scoped collaborators lazily.
type tx struct {
	pgTx  pgx.Tx
	reads shared.CommandReads

	copies       shared.CopyRepository
	reservations shared.ReservationRepository
	users        shared.UserRepository
}

func newTx(pgTx pgx.Tx) shared.Tx {
	return &tx{pgTx: pgTx}
}

func (t *tx) Copies() shared.CopyRepository {
	if t.copies == nil {
		t.copies = repository.NewCopyRepository()
	}
	return t.copies
}

func (t *tx) Reservations() shared.ReservationRepository {
	if t.reservations == nil {
		t.reservations = repository.NewReservationRepository()
	}
	return t.reservations
}

func (t *tx) Users() shared.UserRepository {
	if t.users == nil {
		t.users = repository.NewUserRepository()
	}
	return t.users
}

func (t *tx) Reads() shared.CommandReads {
	if t.reads == nil {
		t.reads = readstore.NewCommandReads(t.pgTx)
	}
	return t.reads
}

func (t *tx) DB() db.DBTX {
	return t.pgTx
}
