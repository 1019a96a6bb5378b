package repository

import (
	"context"

	"campus-booking/internal/domain/facility"
	"campus-booking/internal/infra"
	"campus-booking/internal/pkg/pgconv"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FacilityRepository struct {
	db *pgxpool.Pool
}

func NewFacilityRepository(db *pgxpool.Pool) *FacilityRepository {
	return &FacilityRepository{db: db}
}

func (r *FacilityRepository) Create(ctx context.Context, f *facility.Facility) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO facilities (id, name, capacity, active, description)
		VALUES ($1, $2, $3, $4, $5)`,
		f.ID(), f.Name(), f.Capacity(), f.Active(), f.Description(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create facility", err)
	}
	return nil
}

func (r *FacilityRepository) Update(ctx context.Context, f *facility.Facility) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE facilities SET name = $2, capacity = $3, active = $4,
			description = $5, updated_at = now()
		WHERE id = $1`,
		f.ID(), f.Name(), f.Capacity(), f.Active(), f.Description(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update facility", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("facility not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *FacilityRepository) AddClosure(ctx context.Context, facilityID uuid.UUID, c facility.Closure) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO facility_closures (id, facility_id, start_at, end_at, reason)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), facilityID, c.Start, c.End, c.Reason,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to add facility closure", err)
	}
	return nil
}

func (r *FacilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.FacilityRM, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, capacity, active, description, created_at, updated_at
		FROM facilities WHERE id = $1`, id)

	var rm readmodel.FacilityRM
	err := row.Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.Active, &rm.Description,
		&rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("facility not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find facility by ID", err)
	}

	closures, err := r.findClosures(ctx, id)
	if err != nil {
		return nil, err
	}
	rm.Closures = closures
	return &rm, nil
}

// FindDomainByID rehydrates the aggregate, closures included, for booking
// validation and admin operations.
func (r *FacilityRepository) FindDomainByID(ctx context.Context, id uuid.UUID) (*facility.Facility, error) {
	rm, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	closures := make([]facility.Closure, 0, len(rm.Closures))
	for _, c := range rm.Closures {
		closures = append(closures, facility.Closure{Start: c.Start, End: c.End, Reason: c.Reason})
	}
	return facility.ReconstructFacility(
		rm.ID, rm.Name, int(rm.Capacity), rm.Active, rm.Description,
		closures, rm.CreatedAt, rm.UpdatedAt,
	), nil
}

func (r *FacilityRepository) FindAll(ctx context.Context) ([]*readmodel.FacilityRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, capacity, active, description, created_at, updated_at
		FROM facilities ORDER BY name`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list facilities", err)
	}
	defer rows.Close()

	var out []*readmodel.FacilityRM
	for rows.Next() {
		var rm readmodel.FacilityRM
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Capacity, &rm.Active,
			&rm.Description, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan facility row", err)
		}
		out = append(out, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate facility rows", err)
	}

	for _, rm := range out {
		closures, err := r.findClosures(ctx, rm.ID)
		if err != nil {
			return nil, err
		}
		rm.Closures = closures
	}
	return out, nil
}

func (r *FacilityRepository) findClosures(ctx context.Context, facilityID uuid.UUID) ([]readmodel.ClosureRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT start_at, end_at, reason
		FROM facility_closures WHERE facility_id = $1 ORDER BY start_at`, facilityID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load facility closures", err)
	}
	defer rows.Close()

	var out []readmodel.ClosureRM
	for rows.Next() {
		var c readmodel.ClosureRM
		if err := rows.Scan(&c.Start, &c.End, &c.Reason); err != nil {
			return nil, infra.WrapRepoErr("failed to scan closure row", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate closure rows", err)
	}
	return out, nil
}
