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

type copyReadStore struct {
	db db.DBTX
}

func NewCopyReadStore(dbtx db.DBTX) queries.CopyReadStore {
	return &copyReadStore{db: dbtx}
}

func (s *copyReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CopyView, error) {
	query, args, err := dialect.
		From(goqu.T("copies").As("c")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("c.book_id")))).
		Select(
			goqu.I("c.id"), goqu.I("c.book_id"), goqu.I("b.title"), goqu.I("c.status"),
			dialect.From(goqu.T("copy_subscribers").As("s")).
				Select(goqu.COUNT(goqu.Star())).
				Where(goqu.I("s.copy_id").Eq(goqu.I("c.id"))),
		).
		Where(goqu.I("c.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build copy query", err)
	}

	var (
		copyID, bookID  pgtype.UUID
		title, status   string
		subscriberCount int
	)
	row := s.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&copyID, &bookID, &title, &status, &subscriberCount); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("copy not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find copy", err)
	}

	return &queries.CopyView{
		ID:              pgconv.UUIDFromPgtype(copyID),
		BookID:          pgconv.UUIDFromPgtype(bookID),
		BookTitle:       title,
		Status:          status,
		SubscriberCount: subscriberCount,
	}, nil
}
