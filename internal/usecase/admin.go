package usecase

import (
	"context"
	"log/slog"

	"campus-booking/internal/domain/alert"
	"campus-booking/internal/domain/booking"
	"campus-booking/internal/domain/facility"
	reqdto "campus-booking/internal/handler/dto/request"
	"campus-booking/internal/infra"
	"campus-booking/internal/infra/queue"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/config"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type AdminUseCase interface {
	ListBookings(ctx context.Context, statuses []string) ([]*readmodel.BookingRM, error)
	ApproveBooking(ctx context.Context, bookingID uuid.UUID, req reqdto.DecisionRequest) (*readmodel.BookingRM, error)
	DenyBooking(ctx context.Context, bookingID uuid.UUID, req reqdto.DecisionRequest) (*readmodel.BookingRM, error)
	SetPrepState(ctx context.Context, bookingID uuid.UUID, req reqdto.PrepStateRequest) (*readmodel.BookingRM, error)

	CreateFacility(ctx context.Context, req reqdto.CreateFacilityRequest) (*readmodel.FacilityRM, error)
	UpdateFacility(ctx context.Context, facilityID uuid.UUID, req reqdto.UpdateFacilityRequest) (*readmodel.FacilityRM, error)
	AddClosure(ctx context.Context, facilityID uuid.UUID, req reqdto.ClosureRequest) (*readmodel.FacilityRM, error)

	ListUsers(ctx context.Context) ([]*readmodel.AuthorizedUserRM, error)
	BanUser(ctx context.Context, userID uuid.UUID) (*readmodel.AuthorizedUserRM, error)
	UnbanUser(ctx context.Context, userID uuid.UUID) (*readmodel.AuthorizedUserRM, error)
}

type adminUseCaseImpl struct {
	bookingRepo  BookingRepository
	facilityRepo FacilityRepository
	userRepo     UserRepository
	alertRepo    AlertRepository
	cache        FeedCache
	publisher    queue.EventPublisher
	clock        clock.Clock
	booking      config.BookingConfig
	logger       *slog.Logger
}

func NewAdminUseCase(
	bookingRepo BookingRepository,
	facilityRepo FacilityRepository,
	userRepo UserRepository,
	alertRepo AlertRepository,
	cache FeedCache,
	publisher queue.EventPublisher,
	clock clock.Clock,
	bookingCfg config.BookingConfig,
	logger *slog.Logger,
) AdminUseCase {
	return &adminUseCaseImpl{
		bookingRepo:  bookingRepo,
		facilityRepo: facilityRepo,
		userRepo:     userRepo,
		alertRepo:    alertRepo,
		cache:        cache,
		publisher:    publisher,
		clock:        clock,
		booking:      bookingCfg,
		logger:       logger,
	}
}

func (u *adminUseCaseImpl) ListBookings(ctx context.Context, statuses []string) ([]*readmodel.BookingRM, error) {
	for _, s := range statuses {
		if _, err := booking.NewStatus(s); err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
		}
	}

	rms, err := u.bookingRepo.FindAll(ctx, statuses)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rms, nil
}

func (u *adminUseCaseImpl) ApproveBooking(ctx context.Context, bookingID uuid.UUID, req reqdto.DecisionRequest) (*readmodel.BookingRM, error) {
	b, err := u.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Re-check overlap at decision time: a competing request may have been
	// approved since this one was filed.
	conflicts, err := u.bookingRepo.FindOverlapping(ctx, b.FacilityID(), b.Start(), b.End(), ptr(bookingID))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	if err := b.Approve(req.Response, u.booking.ArrivalWindow); err != nil {
		return nil, errs.ErrInvalidTransition
	}

	rm, err := u.bookingRepo.Update(ctx, b)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.ErrBookingConflict
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	u.notifyDecision(ctx, rm, queue.RouteBookingApproved, "予約が承認されました", alert.SeverityInfo)
	return rm, nil
}

func (u *adminUseCaseImpl) DenyBooking(ctx context.Context, bookingID uuid.UUID, req reqdto.DecisionRequest) (*readmodel.BookingRM, error) {
	b, err := u.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := b.Deny(req.Response); err != nil {
		return nil, errs.ErrInvalidTransition
	}

	rm, err := u.bookingRepo.Update(ctx, b)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	u.notifyDecision(ctx, rm, queue.RouteBookingDenied, "予約が却下されました", alert.SeverityWarning)
	return rm, nil
}

func (u *adminUseCaseImpl) SetPrepState(ctx context.Context, bookingID uuid.UUID, req reqdto.PrepStateRequest) (*readmodel.BookingRM, error) {
	b, err := u.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := b.SetPrepState(req.Item, booking.PrepState(req.State)); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}

	rm, err := u.bookingRepo.Update(ctx, b)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	// Equipment that turned out unavailable warrants telling the owner.
	if booking.PrepState(req.State) == booking.PrepUnavailable {
		u.raiseEquipmentAlert(ctx, rm, req.Item)
	}
	return rm, nil
}

func (u *adminUseCaseImpl) CreateFacility(ctx context.Context, req reqdto.CreateFacilityRequest) (*readmodel.FacilityRM, error) {
	f, err := facility.NewFacility(req.Name, req.Capacity, req.Description)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}

	if err := u.facilityRepo.Create(ctx, f); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return u.facilityRepo.FindByID(ctx, f.ID())
}

func (u *adminUseCaseImpl) UpdateFacility(ctx context.Context, facilityID uuid.UUID, req reqdto.UpdateFacilityRequest) (*readmodel.FacilityRM, error) {
	existing, err := u.facilityRepo.FindDomainByID(ctx, facilityID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrFacilityNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	updated, err := facility.NewFacility(req.Name, req.Capacity, req.Description)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}
	f := facility.ReconstructFacility(
		existing.ID(), updated.Name(), updated.Capacity(), req.Active,
		updated.Description(), existing.Closures(),
		existing.CreatedAt(), existing.UpdatedAt(),
	)

	if err := u.facilityRepo.Update(ctx, f); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return u.facilityRepo.FindByID(ctx, facilityID)
}

func (u *adminUseCaseImpl) AddClosure(ctx context.Context, facilityID uuid.UUID, req reqdto.ClosureRequest) (*readmodel.FacilityRM, error) {
	if _, err := u.facilityRepo.FindDomainByID(ctx, facilityID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrFacilityNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c, err := facility.NewClosure(req.Start, req.End, req.Reason)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}

	if err := u.facilityRepo.AddClosure(ctx, facilityID, c); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return u.facilityRepo.FindByID(ctx, facilityID)
}

func (u *adminUseCaseImpl) ListUsers(ctx context.Context) ([]*readmodel.AuthorizedUserRM, error) {
	rms, err := u.userRepo.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rms, nil
}

func (u *adminUseCaseImpl) BanUser(ctx context.Context, userID uuid.UUID) (*readmodel.AuthorizedUserRM, error) {
	usr, err := u.userRepo.FindDomainByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := usr.Ban(); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}

	if err := u.userRepo.UpdateStatus(ctx, usr); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return u.userRepo.FindByID(ctx, userID)
}

func (u *adminUseCaseImpl) UnbanUser(ctx context.Context, userID uuid.UUID) (*readmodel.AuthorizedUserRM, error) {
	usr, err := u.userRepo.FindDomainByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrUserNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	usr.Unban()
	if err := u.userRepo.UpdateStatus(ctx, usr); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return u.userRepo.FindByID(ctx, userID)
}

func (u *adminUseCaseImpl) loadBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := u.bookingRepo.FindDomainByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, nil
}

func (u *adminUseCaseImpl) notifyDecision(ctx context.Context, rm *readmodel.BookingRM, route, title string, severity alert.Severity) {
	if u.cache != nil {
		if err := u.cache.Invalidate(ctx, rm.FacilityID, rm.Start); err != nil {
			u.logger.Warn("キャッシュの無効化に失敗しました",
				slog.String("facility_id", rm.FacilityID.String()),
				slog.String("error", err.Error()))
		}
	}

	message := rm.FacilityName + " " + rm.Start.Format("2006-01-02 15:04")
	if rm.AdminResponse != nil && *rm.AdminResponse != "" {
		message += ": " + *rm.AdminResponse
	}
	a, err := alert.NewAlert(title, message, severity, ptr(rm.ID), ptr(rm.UserID))
	if err == nil {
		if err := u.alertRepo.Create(ctx, a); err != nil {
			u.logger.Warn("通知の作成に失敗しました", slog.String("error", err.Error()))
		}
	}

	event := queue.BookingEvent{
		BookingID:    rm.ID,
		UserID:       rm.UserID,
		FacilityID:   rm.FacilityID,
		FacilityName: rm.FacilityName,
		Status:       rm.Status,
		Start:        rm.Start,
		End:          rm.End,
		OccurredAt:   u.clock.Now(),
	}
	if err := u.publisher.PublishBookingEvent(ctx, route, event); err != nil {
		u.logger.Warn("予約イベントの発行に失敗しました",
			slog.String("booking_id", rm.ID.String()),
			slog.String("route", route))
	}
}

func (u *adminUseCaseImpl) raiseEquipmentAlert(ctx context.Context, rm *readmodel.BookingRM, item string) {
	a, err := alert.NewAlert(
		"備品が利用できません",
		rm.FacilityName+" "+rm.Start.Format("2006-01-02 15:04"),
		alert.SeverityWarning,
		ptr(rm.ID), ptr(rm.UserID),
	)
	if err != nil {
		return
	}
	a.WithEquipment(map[string]string{item: string(booking.PrepUnavailable)})
	if err := u.alertRepo.Create(ctx, a); err != nil {
		u.logger.Warn("通知の作成に失敗しました", slog.String("error", err.Error()))
	}
}

func ptr[T any](v T) *T {
	return &v
}
