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

type reservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) queries.ReservationReadStore {
	return &reservationReadStore{db: dbtx}
}

func (s *reservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	query, args, err := dialect.
		From(goqu.T("reservations").As("r")).
		Join(goqu.T("copies").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("r.copy_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("c.book_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("r.borrower_id")))).
		Select(
			goqu.I("r.id"), goqu.I("r.copy_id"), goqu.I("b.title"),
			goqu.I("r.borrower_id"), goqu.I("u.email"),
			goqu.I("r.reserved_at"), goqu.I("r.borrowed_at"),
			goqu.I("r.returned_at"), goqu.I("r.due_back"),
		).
		Where(goqu.I("r.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build reservation query", err)
	}

	var (
		resID, copyID, borrowerID       pgtype.UUID
		title, email                    string
		reservedAt                      pgtype.Timestamptz
		borrowedAt, returnedAt, dueBack pgtype.Timestamptz
	)
	row := s.db.QueryRow(ctx, query, args...)
	if err := row.Scan(
		&resID, &copyID, &title, &borrowerID, &email,
		&reservedAt, &borrowedAt, &returnedAt, &dueBack,
	); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}

	return &queries.ReservationView{
		ID:            pgconv.UUIDFromPgtype(resID),
		CopyID:        pgconv.UUIDFromPgtype(copyID),
		BookTitle:     title,
		BorrowerID:    pgconv.UUIDFromPgtype(borrowerID),
		BorrowerEmail: email,
		ReservedAt:    pgconv.TimeFromPgtype(reservedAt),
		BorrowedAt:    pgconv.TimePtrFromPgtype(borrowedAt),
		ReturnedAt:    pgconv.TimePtrFromPgtype(returnedAt),
		DueBack:       pgconv.TimePtrFromPgtype(dueBack),
	}, nil
}

func (s *reservationReadStore) FindByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*queries.ReservationListItem, error) {
	query, args, err := dialect.
		From(goqu.T("reservations").As("r")).
		Join(goqu.T("copies").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("r.copy_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("c.book_id")))).
		Select(
			goqu.I("r.id"), goqu.I("r.copy_id"), goqu.I("b.title"),
			goqu.I("r.reserved_at"), goqu.I("r.due_back"),
		).
		Where(goqu.I("r.borrower_id").Eq(borrowerID)).
		Order(goqu.I("r.reserved_at").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build reservation list query", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()

	items := make([]*queries.ReservationListItem, 0)
	for rows.Next() {
		var (
			resID, copyID pgtype.UUID
			title         string
			reservedAt    pgtype.Timestamptz
			dueBack       pgtype.Timestamptz
		)
		if err := rows.Scan(&resID, &copyID, &title, &reservedAt, &dueBack); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation row", err)
		}
		items = append(items, &queries.ReservationListItem{
			ID:         pgconv.UUIDFromPgtype(resID),
			CopyID:     pgconv.UUIDFromPgtype(copyID),
			BookTitle:  title,
			ReservedAt: pgconv.TimeFromPgtype(reservedAt),
			DueBack:    pgconv.TimePtrFromPgtype(dueBack),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservation rows", err)
	}
	return items, nil
}
