package readstore

import (
	"context"

	"librarium/internal/infra"
	"librarium/internal/infra/db"
	"librarium/internal/pkg/pgconv"
	"librarium/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// commandReads serves the write side's state loads. It runs over
// whatever DBTX it is given, so the unit of work can bind it to a
// transaction and the dispatcher can bind it to the pool.
type commandReads struct {
	db db.DBTX
}

func NewCommandReads(dbtx db.DBTX) shared.CommandReads {
	return &commandReads{db: dbtx}
}

func (r *commandReads) CopyByID(ctx context.Context, id uuid.UUID) (*shared.CopySnapshot, error) {
	query, args, err := dialect.
		From(goqu.T("copies").As("c")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("c.book_id")))).
		Select(
			goqu.I("c.id"), goqu.I("c.book_id"), goqu.I("b.title"),
			goqu.I("c.status"), goqu.I("c.created_at"), goqu.I("c.updated_at"),
		).
		Where(goqu.I("c.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build copy snapshot query", err)
	}

	var (
		copyID, bookID       pgtype.UUID
		title, status        string
		createdAt, updatedAt pgtype.Timestamptz
	)
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(&copyID, &bookID, &title, &status, &createdAt, &updatedAt); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("copy not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load copy", err)
	}

	return &shared.CopySnapshot{
		ID:        pgconv.UUIDFromPgtype(copyID),
		BookID:    pgconv.UUIDFromPgtype(bookID),
		BookTitle: title,
		Status:    status,
		CreatedAt: pgconv.TimeFromPgtype(createdAt),
		UpdatedAt: pgconv.TimeFromPgtype(updatedAt),
	}, nil
}

func (r *commandReads) ReservationWithCopy(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, *shared.CopySnapshot, error) {
	query, args, err := dialect.
		From(goqu.T("reservations").As("r")).
		Join(goqu.T("copies").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("r.copy_id")))).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("c.book_id")))).
		Select(
			goqu.I("r.id"), goqu.I("r.copy_id"), goqu.I("r.borrower_id"),
			goqu.I("r.reserved_at"), goqu.I("r.borrowed_at"),
			goqu.I("r.returned_at"), goqu.I("r.due_back"),
			goqu.I("c.book_id"), goqu.I("b.title"), goqu.I("c.status"),
			goqu.I("c.created_at"), goqu.I("c.updated_at"),
		).
		Where(goqu.I("r.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, nil, infra.WrapRepoErr("failed to build reservation snapshot query", err)
	}

	var (
		resID, copyID, borrowerID       pgtype.UUID
		reservedAt                      pgtype.Timestamptz
		borrowedAt, returnedAt, dueBack pgtype.Timestamptz
		bookID                          pgtype.UUID
		title, status                   string
		createdAt, updatedAt            pgtype.Timestamptz
	)
	row := r.db.QueryRow(ctx, query, args...)
	if err := row.Scan(
		&resID, &copyID, &borrowerID,
		&reservedAt, &borrowedAt, &returnedAt, &dueBack,
		&bookID, &title, &status, &createdAt, &updatedAt,
	); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, nil, infra.WrapRepoErr("failed to load reservation", err)
	}

	res := &shared.ReservationSnapshot{
		ID:         pgconv.UUIDFromPgtype(resID),
		CopyID:     pgconv.UUIDFromPgtype(copyID),
		BorrowerID: pgconv.UUIDFromPgtype(borrowerID),
		ReservedAt: pgconv.TimeFromPgtype(reservedAt),
		BorrowedAt: pgconv.TimePtrFromPgtype(borrowedAt),
		ReturnedAt: pgconv.TimePtrFromPgtype(returnedAt),
		DueBack:    pgconv.TimePtrFromPgtype(dueBack),
	}
	cp := &shared.CopySnapshot{
		ID:        pgconv.UUIDFromPgtype(copyID),
		BookID:    pgconv.UUIDFromPgtype(bookID),
		BookTitle: title,
		Status:    status,
		CreatedAt: pgconv.TimeFromPgtype(createdAt),
		UpdatedAt: pgconv.TimeFromPgtype(updatedAt),
	}
	return res, cp, nil
}

func (r *commandReads) SubscriberAddresses(ctx context.Context, copyID uuid.UUID) ([]string, error) {
	query, args, err := dialect.
		From(goqu.T("copy_subscribers").As("s")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("s.user_id")))).
		Select(goqu.I("u.email")).
		Where(goqu.I("s.copy_id").Eq(copyID)).
		Order(goqu.I("s.subscribed_at").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build subscriber query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load subscribers", err)
	}
	defer rows.Close()

	addresses := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, infra.WrapRepoErr("failed to scan subscriber row", err)
		}
		addresses = append(addresses, email)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate subscriber rows", err)
	}
	return addresses, nil
}

func (r *commandReads) IsSubscribed(ctx context.Context, copyID, userID uuid.UUID) (bool, error) {
	query, args, err := dialect.
		From("copy_subscribers").
		Select(goqu.L("1")).
		Where(goqu.Ex{"copy_id": copyID, "user_id": userID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, infra.WrapRepoErr("failed to build subscription check", err)
	}

	var one int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if pgconv.IsNoRows(err) {
			return false, nil
		}
		return false, infra.WrapRepoErr("failed to check subscription", err)
	}
	return true, nil
}

func (r *commandReads) ContactAddress(ctx context.Context, userID uuid.UUID) (string, error) {
	query, args, err := dialect.
		From("users").
		Select("email").
		Where(goqu.C("id").Eq(userID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", infra.WrapRepoErr("failed to build contact address query", err)
	}

	var email string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&email); err != nil {
		if pgconv.IsNoRows(err) {
			return "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return "", infra.WrapRepoErr("failed to load contact address", err)
	}
	return email, nil
}
