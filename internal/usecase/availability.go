package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"campus-booking/internal/domain/availability"
	"campus-booking/internal/domain/facility"
	"campus-booking/internal/infra"
	"campus-booking/internal/infra/cache"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

// FacilityAvailability is the dashboard view of one facility: its derived
// status plus the booking that justified it.
type FacilityAvailability struct {
	Facility   *readmodel.FacilityRM
	Derivation availability.Derivation
}

// DayGrid is the daily view of one facility: the raw slot sequence and its
// coalesced ranges.
type DayGrid struct {
	FacilityID uuid.UUID
	Date       time.Time
	Slots      []availability.Slot
	Ranges     []availability.Range
	Next       *availability.Range
}

type AvailabilityUseCase interface {
	GetDashboard(ctx context.Context, userID *uuid.UUID) ([]FacilityAvailability, error)
	GetFacilityStatus(ctx context.Context, facilityID uuid.UUID, userID *uuid.UUID) (*FacilityAvailability, error)
	GetDayGrid(ctx context.Context, facilityID uuid.UUID, date time.Time) (*DayGrid, error)
}

type availabilityUseCaseImpl struct {
	bookingRepo  BookingRepository
	facilityRepo FacilityRepository
	cache        FeedCache
	clock        clock.Clock
	hours        facility.OperatingHours
	logger       *slog.Logger
}

func NewAvailabilityUseCase(
	bookingRepo BookingRepository,
	facilityRepo FacilityRepository,
	feedCache FeedCache,
	clock clock.Clock,
	hours facility.OperatingHours,
	logger *slog.Logger,
) AvailabilityUseCase {
	return &availabilityUseCaseImpl{
		bookingRepo:  bookingRepo,
		facilityRepo: facilityRepo,
		cache:        feedCache,
		clock:        clock,
		hours:        hours,
		logger:       logger,
	}
}

// GetDashboard derives the status of every facility at the current instant.
// The caller's own pending bookings participate so a student sees their
// unapproved request reflected immediately.
func (u *availabilityUseCaseImpl) GetDashboard(ctx context.Context, userID *uuid.UUID) ([]FacilityAvailability, error) {
	facilities, err := u.facilityRepo.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	now := u.clock.Now()
	refs, err := u.mergedRefs(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	out := make([]FacilityAvailability, 0, len(facilities))
	for _, f := range facilities {
		out = append(out, FacilityAvailability{
			Facility:   f,
			Derivation: u.derive(refs, f, now),
		})
	}
	return out, nil
}

func (u *availabilityUseCaseImpl) GetFacilityStatus(ctx context.Context, facilityID uuid.UUID, userID *uuid.UUID) (*FacilityAvailability, error) {
	f, err := u.facilityRepo.FindByID(ctx, facilityID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrFacilityNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	now := u.clock.Now()
	refs, err := u.mergedRefs(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	return &FacilityAvailability{Facility: f, Derivation: u.derive(refs, f, now)}, nil
}

// GetDayGrid builds the slot grid over the operating window on the given
// date, reading the per-facility feed through the cache.
func (u *availabilityUseCaseImpl) GetDayGrid(ctx context.Context, facilityID uuid.UUID, date time.Time) (*DayGrid, error) {
	if _, err := u.facilityRepo.FindByID(ctx, facilityID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrFacilityNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	feed, err := u.facilityFeed(ctx, facilityID, date)
	if err != nil {
		return nil, err
	}

	refs := FeedToRefs(feed)
	slots := availability.BuildGrid(refs, facilityID, date, u.hours)
	ranges := availability.Coalesce(slots)
	next := availability.NextAvailable(ranges, u.clock.Now(), availability.SlotWidth)

	return &DayGrid{
		FacilityID: facilityID,
		Date:       date,
		Slots:      slots,
		Ranges:     ranges,
		Next:       next,
	}, nil
}

func (u *availabilityUseCaseImpl) facilityFeed(ctx context.Context, facilityID uuid.UUID, date time.Time) ([]*readmodel.BookingFeedRM, error) {
	if u.cache != nil {
		feed, err := u.cache.GetFeed(ctx, facilityID, date)
		if err == nil {
			return feed, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			u.logger.Warn("フィードキャッシュの読み込みに失敗しました",
				slog.String("facility_id", facilityID.String()),
				slog.String("error", err.Error()))
		}
	}

	open, close := u.hours.WindowOn(date)
	feed, err := u.bookingRepo.FindFacilityFeed(ctx, facilityID, open, close)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if u.cache != nil {
		if err := u.cache.SetFeed(ctx, facilityID, date, feed); err != nil {
			u.logger.Warn("フィードキャッシュの書き込みに失敗しました",
				slog.String("facility_id", facilityID.String()),
				slog.String("error", err.Error()))
		}
	}
	return feed, nil
}

func (u *availabilityUseCaseImpl) mergedRefs(ctx context.Context, userID *uuid.UUID, now time.Time) ([]availability.BookingRef, error) {
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

func (u *availabilityUseCaseImpl) derive(refs []availability.BookingRef, f *readmodel.FacilityRM, now time.Time) availability.Derivation {
	return availability.DeriveStatus(refs, f.ID, f.Active, now, u.hours)
}
