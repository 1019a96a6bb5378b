package usecase

import (
	"context"
	"errors"
	"time"

	"campus-booking/internal/domain/user"
	reqdto "campus-booking/internal/handler/dto/request"
	"campus-booking/internal/infra"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/pkg/jwt"
	"campus-booking/internal/pkg/password"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailAlreadyTaken    = errors.New("email already registered")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTokenGeneration      = errors.New("token generation failed")
	ErrTokenValidation      = errors.New("token validation failed")
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	UpdateStatus(ctx context.Context, u *user.User) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	FindDomainByEmail(ctx context.Context, email string) (*user.User, error)
	FindDomainByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.AuthorizedUserRM, error)
	FindAll(ctx context.Context) ([]*readmodel.AuthorizedUserRM, error)
}

type AuthUseCase interface {
	Login(ctx context.Context, credentials user.Credentials) (string, *readmodel.AuthorizedUserRM, error)
	Register(ctx context.Context, req reqdto.RegisterRequest) (*readmodel.AuthorizedUserRM, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*readmodel.AuthorizedUserRM, error)
}

type authUseCaseImpl struct {
	userRepo   UserRepository
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthUseCase(userRepo UserRepository, jwtService *jwt.Service, clock clock.Clock) AuthUseCase {
	return &authUseCaseImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		clock:      clock,
	}
}

func (a *authUseCaseImpl) Login(ctx context.Context, credentials user.Credentials) (string, *readmodel.AuthorizedUserRM, error) {
	u, err := a.userRepo.FindDomainByEmail(ctx, credentials.Email().Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := password.Compare(u.PasswordHash(), credentials.Password().Value()); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return "", nil, errs.ErrUserBanned
	}

	token, err := a.jwtService.GenerateToken(u.ID(), u.Role())
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	now := a.clock.Now()
	if err := a.userRepo.RecordLogin(ctx, u.ID(), now); err != nil {
		return "", nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return token, &readmodel.AuthorizedUserRM{
		ID:         u.ID(),
		Email:      u.Email().Value(),
		Role:       u.Role().String(),
		Status:     u.Status().String(),
		Department: u.Department(),
	}, nil
}

func (a *authUseCaseImpl) Register(ctx context.Context, req reqdto.RegisterRequest) (*readmodel.AuthorizedUserRM, error) {
	email, err := user.NewEmail(req.Email)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}
	pw, err := user.NewPassword(req.Password)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}
	role, err := user.NewRole(req.Role)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}
	// Self-service registration never yields an admin account.
	if role == user.RoleAdmin {
		return nil, errs.Mark(user.ErrInvalidRole, errs.ErrDomainValidationFailed)
	}

	hash, err := password.Hash(pw.Value())
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	u := user.NewUser(email, hash, role, req.Department)
	if err := a.userRepo.Create(ctx, u); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrEmailAlreadyTaken
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return a.userRepo.FindByID(ctx, u.ID())
}

func (a *authUseCaseImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*readmodel.AuthorizedUserRM, error) {
	rm, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if rm.Status != user.StatusActive.String() {
		return nil, errs.ErrUserBanned
	}
	return rm, nil
}
