package repository

import (
	"context"
	"time"

	"campus-booking/internal/domain/user"
	"campus-booking/internal/infra"
	"campus-booking/internal/pkg/pgconv"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role, status, department)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID(), u.Email().Value(), u.PasswordHash(),
		u.Role().String(), u.Status().String(), u.Department(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, u *user.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET status = $2, updated_at = now() WHERE id = $1`,
		u.ID(), u.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update user status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1`, id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to record login", err)
	}
	return nil
}

func (r *UserRepository) FindDomainByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findDomain(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) FindDomainByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findDomain(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) findDomain(ctx context.Context, where string, arg any) (*user.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, password_hash, role, status, department, last_login,
			created_at, updated_at
		FROM users `+where, arg)

	var (
		id                      uuid.UUID
		email, hash, role, stat string
		department              pgtype.Text
		lastLogin               pgtype.Timestamptz
		createdAt, updatedAt    time.Time
	)
	err := row.Scan(&id, &email, &hash, &role, &stat, &department, &lastLogin,
		&createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}

	emailVO, err := user.NewEmail(email)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid email in storage", err)
	}
	roleVO, err := user.NewRole(role)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid role in storage", err)
	}
	statusVO, err := user.NewStatus(stat)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid status in storage", err)
	}

	return user.ReconstructUser(
		id, emailVO, hash, roleVO, statusVO,
		pgconv.StringPtrFromPgtype(department),
		pgconv.TimePtrFromPgtype(lastLogin),
		createdAt, updatedAt,
	), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.AuthorizedUserRM, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, role, status, department FROM users WHERE id = $1`, id)

	var rm readmodel.AuthorizedUserRM
	var department pgtype.Text
	if err := row.Scan(&rm.ID, &rm.Email, &rm.Role, &rm.Status, &department); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	rm.Department = pgconv.StringPtrFromPgtype(department)
	return &rm, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*readmodel.AuthorizedUserRM, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, role, status, department FROM users ORDER BY email`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list users", err)
	}
	defer rows.Close()

	var out []*readmodel.AuthorizedUserRM
	for rows.Next() {
		var rm readmodel.AuthorizedUserRM
		var department pgtype.Text
		if err := rows.Scan(&rm.ID, &rm.Email, &rm.Role, &rm.Status, &department); err != nil {
			return nil, infra.WrapRepoErr("failed to scan user row", err)
		}
		rm.Department = pgconv.StringPtrFromPgtype(department)
		out = append(out, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate user rows", err)
	}
	return out, nil
}
