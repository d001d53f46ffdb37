package repository

import (
	"context"

	"librarium/internal/domain/reservation"
	"librarium/internal/infra"
	"librarium/internal/infra/db"
	"librarium/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type reservationRepository struct{}

func NewReservationRepository() shared.ReservationRepository {
	return &reservationRepository{}
}

func (r *reservationRepository) Create(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) (uuid.UUID, error) {
	query, args, err := dialect.
		Insert("reservations").
		Rows(goqu.Record{
			"id":          res.ID(),
			"copy_id":     res.CopyID(),
			"borrower_id": res.BorrowerID(),
			"reserved_at": res.ReservedAt(),
			"borrowed_at": res.BorrowedAt(),
			"returned_at": res.ReturnedAt(),
			"due_back":    res.DueBack(),
		}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to build reservation insert", err)
	}

	if _, err := dbtx.Exec(ctx, query, args...); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create reservation", err, classifyPgError(err))
	}
	return res.ID(), nil
}

func (r *reservationRepository) Update(ctx context.Context, dbtx db.DBTX, res *reservation.Reservation) error {
	query, args, err := dialect.
		Update("reservations").
		Set(goqu.Record{
			"borrowed_at": res.BorrowedAt(),
			"returned_at": res.ReturnedAt(),
			"due_back":    res.DueBack(),
		}).
		Where(goqu.C("id").Eq(res.ID())).
		Prepared(true).
		ToSQL()
	if err != nil {
		return infra.WrapRepoErr("failed to build reservation update", err)
	}

	tag, err := dbtx.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err, classifyPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}
