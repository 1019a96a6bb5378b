//go:build unit

package usecase_test

import (
	"context"
	"time"

	"campus-booking/internal/domain/alert"
	"campus-booking/internal/domain/booking"
	"campus-booking/internal/domain/facility"
	"campus-booking/internal/domain/user"
	"campus-booking/internal/infra"
	"campus-booking/internal/infra/cache"
	"campus-booking/internal/infra/queue"
	"campus-booking/internal/usecase/readmodel"

	"github.com/google/uuid"
)

// In-memory fakes for the repository and infrastructure ports. Error
// injection goes through the *Err fields.

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*booking.Booking
	overlaps []*readmodel.BookingFeedRM
	approved []*readmodel.BookingFeedRM
	own      []*readmodel.BookingFeedRM
	facility []*readmodel.BookingFeedRM
	voided   []*readmodel.BookingRM
	expired  []*readmodel.BookingRM

	createErr error
	updateErr error

	lastCreated *booking.Booking
	lastUpdated *booking.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*booking.Booking)}
}

func (r *fakeBookingRepo) add(b *booking.Booking) {
	r.bookings[b.ID()] = b
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) (*readmodel.BookingRM, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.bookings[b.ID()] = b
	r.lastCreated = b
	return bookingRM(b), nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *booking.Booking) (*readmodel.BookingRM, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	if _, ok := r.bookings[b.ID()]; !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	r.bookings[b.ID()] = b
	r.lastUpdated = b
	return bookingRM(b), nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*readmodel.BookingRM, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return bookingRM(b), nil
}

func (r *fakeBookingRepo) FindDomainByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return b, nil
}

func (r *fakeBookingRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*readmodel.BookingRM, error) {
	var rms []*readmodel.BookingRM
	for _, b := range r.bookings {
		if b.UserID() == userID {
			rms = append(rms, bookingRM(b))
		}
	}
	return rms, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context, statuses []string) ([]*readmodel.BookingRM, error) {
	var rms []*readmodel.BookingRM
	for _, b := range r.bookings {
		if len(statuses) == 0 {
			rms = append(rms, bookingRM(b))
			continue
		}
		for _, s := range statuses {
			if b.Status().String() == s {
				rms = append(rms, bookingRM(b))
				break
			}
		}
	}
	return rms, nil
}

func (r *fakeBookingRepo) FindApprovedFeed(context.Context, time.Time) ([]*readmodel.BookingFeedRM, error) {
	return r.approved, nil
}

func (r *fakeBookingRepo) FindOwnFeed(context.Context, uuid.UUID, time.Time) ([]*readmodel.BookingFeedRM, error) {
	return r.own, nil
}

func (r *fakeBookingRepo) FindFacilityFeed(context.Context, uuid.UUID, time.Time, time.Time) ([]*readmodel.BookingFeedRM, error) {
	return r.facility, nil
}

func (r *fakeBookingRepo) FindOverlapping(_ context.Context, _ uuid.UUID, _, _ time.Time, exclude *uuid.UUID) ([]*readmodel.BookingFeedRM, error) {
	if exclude == nil {
		return r.overlaps, nil
	}
	var out []*readmodel.BookingFeedRM
	for _, o := range r.overlaps {
		if o.ID != *exclude {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) MarkExpired(context.Context, time.Time) ([]*readmodel.BookingRM, error) {
	return r.expired, nil
}

func (r *fakeBookingRepo) MarkVoided(context.Context, time.Time) ([]*readmodel.BookingRM, error) {
	return r.voided, nil
}

func bookingRM(b *booking.Booking) *readmodel.BookingRM {
	rm := &readmodel.BookingRM{
		ID:               b.ID(),
		UserID:           b.UserID(),
		UserEmail:        "student@example.ac.jp",
		FacilityID:       b.FacilityID(),
		FacilityName:     "第1セミナー室",
		Start:            b.Start(),
		End:              b.End(),
		Status:           b.Status().String(),
		Participants:     int32(b.Participants()),
		Purpose:          b.Purpose(),
		CourseTag:        b.CourseTag(),
		ArrivalDeadline:  b.ArrivalDeadline(),
		ArrivalConfirmed: b.ArrivalConfirmed(),
		AdminResponse:    b.AdminResponse(),
	}
	if eq := b.Equipment(); eq != nil {
		rm.EquipmentItems = eq.Items
		if eq.Other != "" {
			other := eq.Other
			rm.EquipmentOther = &other
		}
	}
	if prep := b.PrepStatus(); len(prep) > 0 {
		rm.PrepStatus = make(map[string]string, len(prep))
		for item, state := range prep {
			rm.PrepStatus[item] = string(state)
		}
	}
	return rm
}

type fakeFacilityRepo struct {
	facilities map[uuid.UUID]*facility.Facility
}

func newFakeFacilityRepo() *fakeFacilityRepo {
	return &fakeFacilityRepo{facilities: make(map[uuid.UUID]*facility.Facility)}
}

func (r *fakeFacilityRepo) add(f *facility.Facility) {
	r.facilities[f.ID()] = f
}

func (r *fakeFacilityRepo) Create(_ context.Context, f *facility.Facility) error {
	r.facilities[f.ID()] = f
	return nil
}

func (r *fakeFacilityRepo) Update(_ context.Context, f *facility.Facility) error {
	if _, ok := r.facilities[f.ID()]; !ok {
		return infra.WrapRepoErr("facility not found", nil, infra.KindNotFound)
	}
	r.facilities[f.ID()] = f
	return nil
}

func (r *fakeFacilityRepo) AddClosure(_ context.Context, facilityID uuid.UUID, c facility.Closure) error {
	f, ok := r.facilities[facilityID]
	if !ok {
		return infra.WrapRepoErr("facility not found", nil, infra.KindNotFound)
	}
	f.AddClosure(c)
	return nil
}

func (r *fakeFacilityRepo) FindByID(_ context.Context, id uuid.UUID) (*readmodel.FacilityRM, error) {
	f, ok := r.facilities[id]
	if !ok {
		return nil, infra.WrapRepoErr("facility not found", nil, infra.KindNotFound)
	}
	return facilityRM(f), nil
}

func (r *fakeFacilityRepo) FindDomainByID(_ context.Context, id uuid.UUID) (*facility.Facility, error) {
	f, ok := r.facilities[id]
	if !ok {
		return nil, infra.WrapRepoErr("facility not found", nil, infra.KindNotFound)
	}
	return f, nil
}

func (r *fakeFacilityRepo) FindAll(context.Context) ([]*readmodel.FacilityRM, error) {
	var rms []*readmodel.FacilityRM
	for _, f := range r.facilities {
		rms = append(rms, facilityRM(f))
	}
	return rms, nil
}

func facilityRM(f *facility.Facility) *readmodel.FacilityRM {
	closures := make([]readmodel.ClosureRM, 0, len(f.Closures()))
	for _, c := range f.Closures() {
		closures = append(closures, readmodel.ClosureRM{Start: c.Start, End: c.End, Reason: c.Reason})
	}
	return &readmodel.FacilityRM{
		ID:          f.ID(),
		Name:        f.Name(),
		Capacity:    int32(f.Capacity()),
		Active:      f.Active(),
		Description: f.Description(),
		Closures:    closures,
	}
}

type fakeUserRepo struct {
	users   map[uuid.UUID]*user.User
	byEmail map[string]*user.User

	createErr error
	logins    []uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (r *fakeUserRepo) add(u *user.User) {
	r.users[u.ID()] = u
	r.byEmail[u.Email().Value()] = u
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byEmail[u.Email().Value()]; ok {
		return infra.WrapRepoErr("email taken", nil, infra.KindDuplicateKey)
	}
	r.add(u)
	return nil
}

func (r *fakeUserRepo) UpdateStatus(_ context.Context, u *user.User) error {
	if _, ok := r.users[u.ID()]; !ok {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) RecordLogin(_ context.Context, id uuid.UUID, _ time.Time) error {
	r.logins = append(r.logins, id)
	return nil
}

func (r *fakeUserRepo) FindDomainByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) FindDomainByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*readmodel.AuthorizedUserRM, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return userRM(u), nil
}

func (r *fakeUserRepo) FindAll(context.Context) ([]*readmodel.AuthorizedUserRM, error) {
	var rms []*readmodel.AuthorizedUserRM
	for _, u := range r.users {
		rms = append(rms, userRM(u))
	}
	return rms, nil
}

func userRM(u *user.User) *readmodel.AuthorizedUserRM {
	return &readmodel.AuthorizedUserRM{
		ID:         u.ID(),
		Email:      u.Email().Value(),
		Role:       u.Role().String(),
		Status:     u.Status().String(),
		Department: u.Department(),
	}
}

type fakeAlertRepo struct {
	created  []*alert.Alert
	rms      []*readmodel.AlertRM
	markRead []uuid.UUID
}

func (r *fakeAlertRepo) Create(_ context.Context, a *alert.Alert) error {
	r.created = append(r.created, a)
	return nil
}

func (r *fakeAlertRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	r.markRead = append(r.markRead, id)
	return nil
}

func (r *fakeAlertRepo) FindByUser(context.Context, uuid.UUID) ([]*readmodel.AlertRM, error) {
	return r.rms, nil
}

func (r *fakeAlertRepo) FindAll(context.Context) ([]*readmodel.AlertRM, error) {
	return r.rms, nil
}

type fakeFeedCache struct {
	feeds       map[string][]*readmodel.BookingFeedRM
	invalidated int
	sets        int
}

func newFakeFeedCache() *fakeFeedCache {
	return &fakeFeedCache{feeds: make(map[string][]*readmodel.BookingFeedRM)}
}

func feedKey(facilityID uuid.UUID, day time.Time) string {
	return facilityID.String() + ":" + day.Format("2006-01-02")
}

func (c *fakeFeedCache) GetFeed(_ context.Context, facilityID uuid.UUID, day time.Time) ([]*readmodel.BookingFeedRM, error) {
	feed, ok := c.feeds[feedKey(facilityID, day)]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return feed, nil
}

func (c *fakeFeedCache) SetFeed(_ context.Context, facilityID uuid.UUID, day time.Time, feed []*readmodel.BookingFeedRM) error {
	c.feeds[feedKey(facilityID, day)] = feed
	c.sets++
	return nil
}

func (c *fakeFeedCache) Invalidate(_ context.Context, facilityID uuid.UUID, day time.Time) error {
	delete(c.feeds, feedKey(facilityID, day))
	c.invalidated++
	return nil
}

type publishedEvent struct {
	route string
	event queue.BookingEvent
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) PublishBookingEvent(_ context.Context, route string, event queue.BookingEvent) error {
	p.events = append(p.events, publishedEvent{route: route, event: event})
	return nil
}
