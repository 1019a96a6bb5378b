package user

import (
	"time"

	"github.com/google/uuid"
)

// User entity. Account status is managed by admins: banned users keep their
// records but cannot authenticate or hold future bookings.
type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	role         Role
	status       Status
	department   *string
	lastLogin    *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email Email, passwordHash string, role Role, department *string) *User {
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		status:       StatusActive,
		department:   department,
	}
}

func ReconstructUser(
	id uuid.UUID,
	email Email,
	passwordHash string,
	role Role,
	status Status,
	department *string,
	lastLogin *time.Time,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		status:       status,
		department:   department,
		lastLogin:    lastLogin,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) Ban() error {
	if u.role == RoleAdmin {
		return ErrCannotBanAdmin
	}
	u.status = StatusBanned
	return nil
}

func (u *User) Unban() {
	u.status = StatusActive
}

func (u *User) IsActive() bool {
	return u.status == StatusActive
}

func (u *User) IsAdmin() bool {
	return u.role == RoleAdmin
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Role() Role            { return u.role }
func (u *User) Status() Status        { return u.status }
func (u *User) Department() *string   { return u.department }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
