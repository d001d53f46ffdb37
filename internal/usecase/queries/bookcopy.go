package queries

import (
	"context"

	"librarium/internal/infra"
	"librarium/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCopyNotFound = errs.New("copy not found")

type CopyReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CopyView, error)
}

type CopyQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CopyView, error)
}

type copyQueriesImpl struct {
	store CopyReadStore
}

func NewCopyQueries(store CopyReadStore) CopyQueries {
	return &copyQueriesImpl{store: store}
}

func (q *copyQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CopyView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCopyNotFound
		}
		return nil, errs.Wrap(err, "failed to find copy")
	}
	return view, nil
}
