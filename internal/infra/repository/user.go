package repository

import (
	"context"

	"librarium/internal/infra"
	"librarium/internal/infra/db"
	"librarium/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type userRepository struct{}

func NewUserRepository() shared.UserRepository {
	return &userRepository{}
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error {
	query, args, err := dialect.
		Update("users").
		Set(goqu.Record{"last_login": goqu.L("now()")}).
		Where(goqu.C("id").Eq(userID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build last login update", err)
	}

	tag, err := dbtx.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err, classifyPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}
