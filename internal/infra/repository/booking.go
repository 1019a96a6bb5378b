package repository

import (
	"context"
	"encoding/json"
	"time"

	"campus-booking/internal/domain/booking"
	"campus-booking/internal/infra"
	"campus-booking/internal/pkg/pgconv"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `
	b.id, b.user_id, u.email, b.facility_id, f.name,
	b.start_at, b.end_at, b.status, b.participants, b.purpose, b.course_tag,
	b.equipment, b.prep_status, b.arrival_deadline, b.arrival_confirmed,
	b.admin_response, b.created_at, b.updated_at`

const bookingJoin = `
	FROM bookings b
	JOIN users u ON u.id = b.user_id
	JOIN facilities f ON f.id = b.facility_id`

type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (*readmodel.BookingRM, error) {
	equipment, prep, err := marshalEquipment(b)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to encode equipment", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO bookings (
			id, user_id, facility_id, start_at, end_at, status, participants,
			purpose, course_tag, equipment, prep_status, arrival_deadline,
			arrival_confirmed, admin_response
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		b.ID(), b.UserID(), b.FacilityID(), b.Start(), b.End(), b.Status().String(),
		b.Participants(), b.Purpose(), b.CourseTag(), equipment, prep,
		b.ArrivalDeadline(), b.ArrivalConfirmed(), b.AdminResponse(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return r.FindByID(ctx, b.ID())
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) (*readmodel.BookingRM, error) {
	equipment, prep, err := marshalEquipment(b)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to encode equipment", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET
			start_at = $2, end_at = $3, status = $4, participants = $5,
			purpose = $6, course_tag = $7, equipment = $8, prep_status = $9,
			arrival_deadline = $10, arrival_confirmed = $11, admin_response = $12,
			updated_at = now()
		WHERE id = $1`,
		b.ID(), b.Start(), b.End(), b.Status().String(), b.Participants(),
		b.Purpose(), b.CourseTag(), equipment, prep,
		b.ArrivalDeadline(), b.ArrivalConfirmed(), b.AdminResponse(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	return r.FindByID(ctx, b.ID())
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.BookingRM, error) {
	row := r.db.QueryRow(ctx, `SELECT`+bookingColumns+bookingJoin+` WHERE b.id = $1`, id)
	rm, err := scanBookingRM(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return rm, nil
}

// FindDomainByID rehydrates the aggregate for transition methods.
func (r *BookingRepository) FindDomainByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	rm, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return rmToDomain(rm)
}

func (r *BookingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.BookingRM, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+bookingColumns+bookingJoin+` WHERE b.user_id = $1 ORDER BY b.start_at`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by user", err)
	}
	defer rows.Close()

	return collectBookingRMs(rows)
}

// FindAll returns every booking, optionally filtered by status. Admin only.
func (r *BookingRepository) FindAll(ctx context.Context, statuses []string) ([]*readmodel.BookingRM, error) {
	query := `SELECT` + bookingColumns + bookingJoin
	args := []any{}
	if len(statuses) > 0 {
		query += ` WHERE b.status = ANY($1)`
		args = append(args, statuses)
	}
	query += ` ORDER BY b.start_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	return collectBookingRMs(rows)
}

// FindApprovedFeed returns the public feed: approved bookings that have not
// ended yet, in the slim projection everyone may see.
func (r *BookingRepository) FindApprovedFeed(ctx context.Context, now time.Time) ([]*readmodel.BookingFeedRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, facility_id, status, start_at, end_at
		FROM bookings
		WHERE status = 'approved' AND end_at > $1
		ORDER BY start_at`, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load approved feed", err)
	}
	defer rows.Close()

	return collectFeedRMs(rows)
}

// FindOwnFeed returns the caller's pending and approved bookings in feed
// projection, for merging with the public feed.
func (r *BookingRepository) FindOwnFeed(ctx context.Context, userID uuid.UUID, now time.Time) ([]*readmodel.BookingFeedRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, facility_id, status, start_at, end_at
		FROM bookings
		WHERE user_id = $1 AND status IN ('pending', 'approved') AND end_at > $2
		ORDER BY start_at`, userID, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load own feed", err)
	}
	defer rows.Close()

	return collectFeedRMs(rows)
}

// FindFacilityFeed returns occupying bookings touching [from, to) on one
// facility, in feed projection. Backs the slot grid and the status cache.
func (r *BookingRepository) FindFacilityFeed(ctx context.Context, facilityID uuid.UUID, from, to time.Time) ([]*readmodel.BookingFeedRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, facility_id, status, start_at, end_at
		FROM bookings
		WHERE facility_id = $1
		  AND status IN ('pending', 'approved')
		  AND start_at < $3 AND end_at > $2
		ORDER BY start_at`, facilityID, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load facility feed", err)
	}
	defer rows.Close()

	return collectFeedRMs(rows)
}

// FindOverlapping returns approved bookings colliding with [start, end) on
// the facility, excluding the given booking ID. The result feeds the
// conflict payload returned to clients.
func (r *BookingRepository) FindOverlapping(
	ctx context.Context,
	facilityID uuid.UUID,
	start, end time.Time,
	exclude *uuid.UUID,
) ([]*readmodel.BookingFeedRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, facility_id, status, start_at, end_at
		FROM bookings
		WHERE facility_id = $1
		  AND status = 'approved'
		  AND start_at < $3 AND end_at > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_at`, facilityID, start, end, exclude)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find overlapping bookings", err)
	}
	defer rows.Close()

	return collectFeedRMs(rows)
}

// MarkExpired transitions pending/approved bookings past their end time and
// returns the affected rows. Used by the sweeper.
func (r *BookingRepository) MarkExpired(ctx context.Context, now time.Time) ([]*readmodel.BookingRM, error) {
	return r.sweep(ctx, `
		UPDATE bookings SET status = 'expired', updated_at = now()
		WHERE status IN ('pending', 'approved') AND end_at < $1
		RETURNING id`, now)
}

// MarkVoided lapses approved bookings whose arrival deadline passed without
// confirmation.
func (r *BookingRepository) MarkVoided(ctx context.Context, now time.Time) ([]*readmodel.BookingRM, error) {
	return r.sweep(ctx, `
		UPDATE bookings SET status = 'void', updated_at = now()
		WHERE status = 'approved' AND arrival_confirmed = false
		  AND arrival_deadline IS NOT NULL AND arrival_deadline < $1
		RETURNING id`, now)
}

func (r *BookingRepository) sweep(ctx context.Context, query string, now time.Time) ([]*readmodel.BookingRM, error) {
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to sweep bookings", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to collect swept booking ids", err)
	}

	out := make([]*readmodel.BookingRM, 0, len(ids))
	for _, id := range ids {
		rm, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, nil
}

func marshalEquipment(b *booking.Booking) ([]byte, []byte, error) {
	var equipment, prep []byte
	var err error
	if b.Equipment() != nil {
		equipment, err = json.Marshal(b.Equipment())
		if err != nil {
			return nil, nil, err
		}
	}
	if b.PrepStatus() != nil {
		prep, err = json.Marshal(b.PrepStatus())
		if err != nil {
			return nil, nil, err
		}
	}
	return equipment, prep, nil
}

func scanBookingRM(row pgx.Row) (*readmodel.BookingRM, error) {
	var rm readmodel.BookingRM
	var courseTag, adminResponse pgtype.Text
	var arrivalDeadline pgtype.Timestamptz
	var equipment, prep []byte

	err := row.Scan(
		&rm.ID, &rm.UserID, &rm.UserEmail, &rm.FacilityID, &rm.FacilityName,
		&rm.Start, &rm.End, &rm.Status, &rm.Participants, &rm.Purpose, &courseTag,
		&equipment, &prep, &arrivalDeadline, &rm.ArrivalConfirmed,
		&adminResponse, &rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rm.CourseTag = pgconv.StringPtrFromPgtype(courseTag)
	rm.AdminResponse = pgconv.StringPtrFromPgtype(adminResponse)
	rm.ArrivalDeadline = pgconv.TimePtrFromPgtype(arrivalDeadline)

	if len(equipment) > 0 {
		var eq booking.EquipmentRequest
		if err := json.Unmarshal(equipment, &eq); err == nil {
			rm.EquipmentItems = eq.Items
			if eq.Other != "" {
				other := eq.Other
				rm.EquipmentOther = &other
			}
		}
	}
	if len(prep) > 0 {
		_ = json.Unmarshal(prep, &rm.PrepStatus)
	}

	return &rm, nil
}

func collectBookingRMs(rows pgx.Rows) ([]*readmodel.BookingRM, error) {
	var out []*readmodel.BookingRM
	for rows.Next() {
		rm, err := scanBookingRM(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return out, nil
}

func collectFeedRMs(rows pgx.Rows) ([]*readmodel.BookingFeedRM, error) {
	var out []*readmodel.BookingFeedRM
	for rows.Next() {
		var rm readmodel.BookingFeedRM
		if err := rows.Scan(&rm.ID, &rm.FacilityID, &rm.Status, &rm.Start, &rm.End); err != nil {
			return nil, infra.WrapRepoErr("failed to scan feed row", err)
		}
		out = append(out, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate feed rows", err)
	}
	return out, nil
}

func rmToDomain(rm *readmodel.BookingRM) (*booking.Booking, error) {
	status, err := booking.NewStatus(rm.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid booking status in storage", err)
	}

	var equipment *booking.EquipmentRequest
	if len(rm.EquipmentItems) > 0 || rm.EquipmentOther != nil {
		equipment = &booking.EquipmentRequest{Items: rm.EquipmentItems}
		if rm.EquipmentOther != nil {
			equipment.Other = *rm.EquipmentOther
		}
	}

	var prep map[string]booking.PrepState
	if len(rm.PrepStatus) > 0 {
		prep = make(map[string]booking.PrepState, len(rm.PrepStatus))
		for item, state := range rm.PrepStatus {
			prep[item] = booking.PrepState(state)
		}
	}

	return booking.ReconstructBooking(
		rm.ID, rm.UserID, rm.FacilityID,
		rm.Start, rm.End, status,
		int(rm.Participants), rm.Purpose, rm.CourseTag,
		equipment, prep,
		rm.ArrivalDeadline, rm.ArrivalConfirmed, rm.AdminResponse,
		rm.CreatedAt, rm.UpdatedAt,
	), nil
}
