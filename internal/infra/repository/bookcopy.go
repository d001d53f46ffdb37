package repository

import (
	"context"

	"librarium/internal/infra"
	"librarium/internal/infra/db"
	"librarium/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type copyRepository struct{}

func NewCopyRepository() shared.CopyRepository {
	return &copyRepository{}
}

func (r *copyRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status string) error {
	query, args, err := dialect.
		Update("copies").
		Set(goqu.Record{
			"status":     status,
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build copy status update", err)
	}

	tag, err := dbtx.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update copy status", err, classifyPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("copy not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *copyRepository) AddSubscriber(ctx context.Context, dbtx db.DBTX, copyID, userID uuid.UUID) error {
	query, args, err := dialect.
		Insert("copy_subscribers").
		Rows(goqu.Record{
			"copy_id": copyID,
			"user_id": userID,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build subscriber insert", err)
	}

	if _, err := dbtx.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr("failed to add subscriber", err, classifyPgError(err))
	}
	return nil
}

func (r *copyRepository) RemoveSubscriber(ctx context.Context, dbtx db.DBTX, copyID, userID uuid.UUID) (int64, error) {
	query, args, err := dialect.
		Delete("copy_subscribers").
		Where(goqu.Ex{
			"copy_id": copyID,
			"user_id": userID,
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to build subscriber delete", err)
	}

	tag, err := dbtx.Exec(ctx, query, args...)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to remove subscriber", err, classifyPgError(err))
	}
	return tag.RowsAffected(), nil
}
