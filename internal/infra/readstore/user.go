package readstore

import (
	"context"

	"librarium/internal/infra"
	"librarium/internal/infra/db"
	"librarium/internal/pkg/pgconv"
	"librarium/internal/usecase/queries"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type userReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) queries.UserReadStore {
	return &userReadStore{db: dbtx}
}

func (s *userReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	view, _, err := s.findOne(ctx, goqu.C("id").Eq(id))
	return view, err
}

func (s *userReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	return s.findOne(ctx, goqu.C("email").Eq(email))
}

func (s *userReadStore) findOne(ctx context.Context, cond goqu.Expression) (*queries.AuthorizedUserView, string, error) {
	query, args, err := dialect.
		From("users").
		Select("id", "email", "role", "is_active", "password_hash").
		Where(cond).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, "", infra.WrapRepoErr("failed to build user query", err)
	}

	var (
		userID       pgtype.UUID
		emailCol     string
		role         string
		isActive     bool
		passwordHash string
	)
	row := s.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&userID, &emailCol, &role, &isActive, &passwordHash); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user", err)
	}

	return &queries.AuthorizedUserView{
		ID:       pgconv.UUIDFromPgtype(userID),
		Email:    emailCol,
		Role:     role,
		IsActive: isActive,
	}, passwordHash, nil
}
