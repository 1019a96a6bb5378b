package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campus-booking/internal/domain/availability"
	"campus-booking/internal/domain/booking"
	"campus-booking/internal/domain/facility"
	"campus-booking/internal/domain/user"
	reqdto "campus-booking/internal/handler/dto/request"
	"campus-booking/internal/infra"
	"campus-booking/internal/infra/queue"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var ErrFacilityClosed = errors.New("facility closed for the requested period")

// ConflictError carries the bookings already occupying the requested slot so
// handlers can return them to the client.
type ConflictError struct {
	Conflicts []*readmodel.BookingFeedRM
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot conflicts with %d existing booking(s)", len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return errs.ErrBookingConflict
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) (*readmodel.BookingRM, error)
	Update(ctx context.Context, b *booking.Booking) (*readmodel.BookingRM, error)
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.BookingRM, error)
	FindDomainByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.BookingRM, error)
	FindAll(ctx context.Context, statuses []string) ([]*readmodel.BookingRM, error)
	FindApprovedFeed(ctx context.Context, now time.Time) ([]*readmodel.BookingFeedRM, error)
	FindOwnFeed(ctx context.Context, userID uuid.UUID, now time.Time) ([]*readmodel.BookingFeedRM, error)
	FindFacilityFeed(ctx context.Context, facilityID uuid.UUID, from, to time.Time) ([]*readmodel.BookingFeedRM, error)
	FindOverlapping(ctx context.Context, facilityID uuid.UUID, start, end time.Time, exclude *uuid.UUID) ([]*readmodel.BookingFeedRM, error)
	MarkExpired(ctx context.Context, now time.Time) ([]*readmodel.BookingRM, error)
	MarkVoided(ctx context.Context, now time.Time) ([]*readmodel.BookingRM, error)
}

type FacilityRepository interface {
	Create(ctx context.Context, f *facility.Facility) error
	Update(ctx context.Context, f *facility.Facility) error
	AddClosure(ctx context.Context, facilityID uuid.UUID, c facility.Closure) error
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.FacilityRM, error)
	FindDomainByID(ctx context.Context, id uuid.UUID) (*facility.Facility, error)
	FindAll(ctx context.Context) ([]*readmodel.FacilityRM, error)
}

// FeedCache is the short-TTL store for per-facility availability feeds.
type FeedCache interface {
	GetFeed(ctx context.Context, facilityID uuid.UUID, day time.Time) ([]*readmodel.BookingFeedRM, error)
	SetFeed(ctx context.Context, facilityID uuid.UUID, day time.Time, feed []*readmodel.BookingFeedRM) error
	Invalidate(ctx context.Context, facilityID uuid.UUID, day time.Time) error
}

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req reqdto.CreateBookingRequest) (*readmodel.BookingRM, error)
	UpdateBooking(ctx context.Context, userID, bookingID uuid.UUID, req reqdto.UpdateBookingRequest) (*readmodel.BookingRM, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, role user.Role, bookingID uuid.UUID) (*readmodel.BookingRM, error)
	ConfirmArrival(ctx context.Context, userID, bookingID uuid.UUID) (*readmodel.BookingRM, error)
	GetBooking(ctx context.Context, userID uuid.UUID, role user.Role, bookingID uuid.UUID) (*readmodel.BookingRM, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID) ([]*readmodel.BookingRM, error)
	GetFeed(ctx context.Context, userID *uuid.UUID) ([]availability.BookingRef, error)
}

type bookingUseCaseImpl struct {
	bookingRepo  BookingRepository
	facilityRepo FacilityRepository
	cache        FeedCache
	publisher    queue.EventPublisher
	clock        clock.Clock
	hours        facility.OperatingHours
	logger       *slog.Logger
}

func NewBookingUseCase(
	bookingRepo BookingRepository,
	facilityRepo FacilityRepository,
	cache FeedCache,
	publisher queue.EventPublisher,
	clock clock.Clock,
	hours facility.OperatingHours,
	logger *slog.Logger,
) BookingUseCase {
	return &bookingUseCaseImpl{
		bookingRepo:  bookingRepo,
		facilityRepo: facilityRepo,
		cache:        cache,
		publisher:    publisher,
		clock:        clock,
		hours:        hours,
		logger:       logger,
	}
}

func (u *bookingUseCaseImpl) CreateBooking(ctx context.Context, userID uuid.UUID, req reqdto.CreateBookingRequest) (*readmodel.BookingRM, error) {
	f, err := u.loadBookableFacility(ctx, req.FacilityID, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	if err := u.checkConflicts(ctx, req.FacilityID, req.Start, req.End, nil); err != nil {
		return nil, err
	}

	b, err := booking.NewBooking(f, u.hours, userID, req.ToDomain(), u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}

	rm, err := u.bookingRepo.Create(ctx, b)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, u.conflictError(ctx, req.FacilityID, req.Start, req.End, nil)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	u.afterMutation(ctx, queue.RouteBookingRequested, rm)
	return rm, nil
}

func (u *bookingUseCaseImpl) UpdateBooking(ctx context.Context, userID, bookingID uuid.UUID, req reqdto.UpdateBookingRequest) (*readmodel.BookingRM, error) {
	b, err := u.loadOwnedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	f, err := u.loadBookableFacility(ctx, b.FacilityID(), req.Start, req.End)
	if err != nil {
		return nil, err
	}

	if err := u.checkConflicts(ctx, b.FacilityID(), req.Start, req.End, &bookingID); err != nil {
		return nil, err
	}

	if err := b.Amend(f, u.hours, req.ToDomain(), u.clock.Now()); err != nil {
		if errors.Is(err, booking.ErrNotPending) {
			return nil, errs.ErrInvalidTransition
		}
		return nil, errs.Mark(err, errs.ErrDomainValidationFailed)
	}

	rm, err := u.bookingRepo.Update(ctx, b)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, u.conflictError(ctx, b.FacilityID(), req.Start, req.End, &bookingID)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	u.afterMutation(ctx, queue.RouteBookingRequested, rm)
	return rm, nil
}

func (u *bookingUseCaseImpl) CancelBooking(ctx context.Context, userID uuid.UUID, role user.Role, bookingID uuid.UUID) (*readmodel.BookingRM, error) {
	b, err := u.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(userID) && role != user.RoleAdmin {
		return nil, errs.ErrNotBookingOwner
	}

	if err := b.Cancel(); err != nil {
		return nil, errs.ErrInvalidTransition
	}

	rm, err := u.bookingRepo.Update(ctx, b)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	u.afterMutation(ctx, queue.RouteBookingCancelled, rm)
	return rm, nil
}

func (u *bookingUseCaseImpl) ConfirmArrival(ctx context.Context, userID, bookingID uuid.UUID) (*readmodel.BookingRM, error) {
	b, err := u.loadOwnedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := b.ConfirmArrival(u.clock.Now()); err != nil {
		if errors.Is(err, booking.ErrDeadlinePassed) {
			return nil, errs.ErrArrivalWindowClosed
		}
		return nil, errs.ErrInvalidTransition
	}

	rm, err := u.bookingRepo.Update(ctx, b)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rm, nil
}

func (u *bookingUseCaseImpl) GetBooking(ctx context.Context, userID uuid.UUID, role user.Role, bookingID uuid.UUID) (*readmodel.BookingRM, error) {
	rm, err := u.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if rm.UserID != userID && role != user.RoleAdmin {
		return nil, errs.ErrNotBookingOwner
	}
	return rm, nil
}

func (u *bookingUseCaseImpl) GetUserBookings(ctx context.Context, userID uuid.UUID) ([]*readmodel.BookingRM, error) {
	rms, err := u.bookingRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return rms, nil
}

// GetFeed merges the public approved feed with the caller's own pending and
// approved bookings, the owner's copy winning on duplicates.
func (u *bookingUseCaseImpl) GetFeed(ctx context.Context, userID *uuid.UUID) ([]availability.BookingRef, error) {
	now := u.clock.Now()

	public, err := u.bookingRepo.FindApprovedFeed(ctx, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	var own []*readmodel.BookingFeedRM
	if userID != nil {
		own, err = u.bookingRepo.FindOwnFeed(ctx, *userID, now)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	return availability.Merge(FeedToRefs(public), FeedToRefs(own)), nil
}

// FeedToRefs converts feed read models into the flat projection the
// availability engine consumes.
func FeedToRefs(feed []*readmodel.BookingFeedRM) []availability.BookingRef {
	refs := make([]availability.BookingRef, 0, len(feed))
	for _, f := range feed {
		refs = append(refs, availability.BookingRef{
			ID:         f.ID,
			FacilityID: f.FacilityID,
			Status:     booking.Status(f.Status),
			Start:      f.Start,
			End:        f.End,
		})
	}
	return refs
}

func (u *bookingUseCaseImpl) loadBooking(ctx context.Context, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := u.bookingRepo.FindDomainByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, nil
}

func (u *bookingUseCaseImpl) loadOwnedBooking(ctx context.Context, userID, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := u.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(userID) {
		return nil, errs.ErrNotBookingOwner
	}
	return b, nil
}

func (u *bookingUseCaseImpl) loadBookableFacility(ctx context.Context, facilityID uuid.UUID, start, end time.Time) (*facility.Facility, error) {
	f, err := u.facilityRepo.FindDomainByID(ctx, facilityID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrFacilityNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !f.Active() {
		return nil, errs.ErrFacilityDisabled
	}
	if f.ClosedDuring(start, end) {
		return nil, ErrFacilityClosed
	}
	return f, nil
}

func (u *bookingUseCaseImpl) checkConflicts(ctx context.Context, facilityID uuid.UUID, start, end time.Time, exclude *uuid.UUID) error {
	conflicts, err := u.bookingRepo.FindOverlapping(ctx, facilityID, start, end, exclude)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}
	return nil
}

// conflictError rebuilds the conflict payload after the database exclusion
// constraint fired, which means a competing booking won the race.
func (u *bookingUseCaseImpl) conflictError(ctx context.Context, facilityID uuid.UUID, start, end time.Time, exclude *uuid.UUID) error {
	conflicts, err := u.bookingRepo.FindOverlapping(ctx, facilityID, start, end, exclude)
	if err != nil {
		return errs.ErrBookingConflict
	}
	return &ConflictError{Conflicts: conflicts}
}

// afterMutation drops the affected cache entry and publishes the lifecycle
// event. Neither failure aborts the request.
func (u *bookingUseCaseImpl) afterMutation(ctx context.Context, route string, rm *readmodel.BookingRM) {
	if u.cache != nil {
		if err := u.cache.Invalidate(ctx, rm.FacilityID, rm.Start); err != nil {
			u.logger.Warn("キャッシュの無効化に失敗しました",
				slog.String("facility_id", rm.FacilityID.String()),
				slog.String("error", err.Error()))
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
