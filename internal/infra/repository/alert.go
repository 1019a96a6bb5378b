package repository

import (
	"context"
	"encoding/json"

	"campus-booking/internal/domain/alert"
	"campus-booking/internal/infra"
	"campus-booking/internal/pkg/pgconv"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AlertRepository struct {
	db *pgxpool.Pool
}

func NewAlertRepository(db *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, a *alert.Alert) error {
	var equipment []byte
	if len(a.Equipment()) > 0 {
		var err error
		equipment, err = json.Marshal(a.Equipment())
		if err != nil {
			return infra.WrapRepoErr("failed to encode alert equipment", err)
		}
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO alerts (id, title, message, severity, equipment, booking_id, user_id, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID(), a.Title(), a.Message(), string(a.Severity()),
		equipment, a.BookingID(), a.UserID(), a.Read(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create alert", err)
	}
	return nil
}

func (r *AlertRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE alerts SET read = true WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to mark alert read", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("alert not found", nil, infra.KindNotFound)
	}
	return nil
}

// FindByUser returns alerts addressed to the user plus broadcast alerts with
// no addressee, newest first.
func (r *AlertRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.AlertRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, message, severity, equipment, booking_id, user_id, read, created_at
		FROM alerts
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find alerts by user", err)
	}
	defer rows.Close()

	return collectAlertRMs(rows)
}

func (r *AlertRepository) FindAll(ctx context.Context) ([]*readmodel.AlertRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, message, severity, equipment, booking_id, user_id, read, created_at
		FROM alerts ORDER BY created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list alerts", err)
	}
	defer rows.Close()

	return collectAlertRMs(rows)
}

func collectAlertRMs(rows pgx.Rows) ([]*readmodel.AlertRM, error) {
	var out []*readmodel.AlertRM
	for rows.Next() {
		var rm readmodel.AlertRM
		var equipment []byte
		var bookingID, userID pgtype.UUID
		err := rows.Scan(&rm.ID, &rm.Title, &rm.Message, &rm.Severity,
			&equipment, &bookingID, &userID, &rm.Read, &rm.CreatedAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan alert row", err)
		}
		rm.BookingID = pgconv.UUIDPtrFromPgtype(bookingID)
		rm.UserID = pgconv.UUIDPtrFromPgtype(userID)
		if len(equipment) > 0 {
			_ = json.Unmarshal(equipment, &rm.Equipment)
		}
		out = append(out, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate alert rows", err)
	}
	return out, nil
}
