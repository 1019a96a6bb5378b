//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campus-booking/internal/domain/availability"
	"campus-booking/internal/domain/user"
	"campus-booking/internal/handler/api"
	reqdto "campus-booking/internal/handler/dto/request"
	resdto "campus-booking/internal/handler/dto/response"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase"
	"campus-booking/internal/usecase/readmodel"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// fakeBookingUseCase implements usecase.BookingUseCase with overridable
// function fields.
type fakeBookingUseCase struct {
	createFn  func(ctx context.Context, userID uuid.UUID, req reqdto.CreateBookingRequest) (*readmodel.BookingRM, error)
	updateFn  func(ctx context.Context, userID, bookingID uuid.UUID, req reqdto.UpdateBookingRequest) (*readmodel.BookingRM, error)
	cancelFn  func(ctx context.Context, userID uuid.UUID, role user.Role, bookingID uuid.UUID) (*readmodel.BookingRM, error)
	arrivalFn func(ctx context.Context, userID, bookingID uuid.UUID) (*readmodel.BookingRM, error)
	getFn     func(ctx context.Context, userID uuid.UUID, role user.Role, bookingID uuid.UUID) (*readmodel.BookingRM, error)
	listFn    func(ctx context.Context, userID uuid.UUID) ([]*readmodel.BookingRM, error)
	feedFn    func(ctx context.Context, userID *uuid.UUID) ([]availability.BookingRef, error)
}

func (f *fakeBookingUseCase) CreateBooking(ctx context.Context, userID uuid.UUID, req reqdto.CreateBookingRequest) (*readmodel.BookingRM, error) {
	return f.createFn(ctx, userID, req)
}

func (f *fakeBookingUseCase) UpdateBooking(ctx context.Context, userID, bookingID uuid.UUID, req reqdto.UpdateBookingRequest) (*readmodel.BookingRM, error) {
	return f.updateFn(ctx, userID, bookingID, req)
}

func (f *fakeBookingUseCase) CancelBooking(ctx context.Context, userID uuid.UUID, role user.Role, bookingID uuid.UUID) (*readmodel.BookingRM, error) {
	return f.cancelFn(ctx, userID, role, bookingID)
}

func (f *fakeBookingUseCase) ConfirmArrival(ctx context.Context, userID, bookingID uuid.UUID) (*readmodel.BookingRM, error) {
	return f.arrivalFn(ctx, userID, bookingID)
}

func (f *fakeBookingUseCase) GetBooking(ctx context.Context, userID uuid.UUID, role user.Role, bookingID uuid.UUID) (*readmodel.BookingRM, error) {
	return f.getFn(ctx, userID, role, bookingID)
}

func (f *fakeBookingUseCase) GetUserBookings(ctx context.Context, userID uuid.UUID) ([]*readmodel.BookingRM, error) {
	return f.listFn(ctx, userID)
}

func (f *fakeBookingUseCase) GetFeed(ctx context.Context, userID *uuid.UUID) ([]availability.BookingRef, error) {
	return f.feedFn(ctx, userID)
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	uc     *fakeBookingUseCase
	userID uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.uc = &fakeBookingUseCase{}
	s.userID = uuid.New()

	handler := api.NewBookingHandler(s.uc)

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleStudent)
		c.Next()
	}
	optionalAuth := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", s.userID)
			c.Set("user_role", user.RoleStudent)
		}
		c.Next()
	}

	s.router.GET("/bookings/all", optionalAuth, handler.GetFeed)
	s.router.POST("/bookings", authMiddleware, handler.CreateBooking)
	s.router.GET("/bookings/:id", authMiddleware, handler.GetBooking)
	s.router.POST("/bookings/:id/cancel", authMiddleware, handler.CancelBooking)
	s.router.POST("/bookings/:id/confirm-arrival", authMiddleware, handler.ConfirmArrival)
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) request(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer token")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validCreateBody() string {
	return `{
		"facilityId": "2f1e9b1a-0000-4000-8000-000000000001",
		"start": "2025-04-01T10:00:00Z",
		"end": "2025-04-01T11:00:00Z",
		"participants": 4,
		"purpose": "ゼミ発表の練習"
	}`
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	s.Run("作成成功で201", func() {
		rm := &readmodel.BookingRM{ID: uuid.New(), UserID: s.userID, Status: "pending"}
		s.uc.createFn = func(_ context.Context, userID uuid.UUID, _ reqdto.CreateBookingRequest) (*readmodel.BookingRM, error) {
			s.Equal(s.userID, userID)
			return rm, nil
		}

		rec := s.request(http.MethodPost, "/bookings", validCreateBody(), true)
		s.Equal(http.StatusCreated, rec.Code)

		var resp resdto.BookingResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(rm.ID, resp.ID)
	})

	s.Run("未認証は401", func() {
		rec := s.request(http.MethodPost, "/bookings", validCreateBody(), false)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("衝突時は409でconflictingBookingsを返す", func() {
		conflict := &readmodel.BookingFeedRM{
			ID:         uuid.New(),
			FacilityID: uuid.MustParse("2f1e9b1a-0000-4000-8000-000000000001"),
			Status:     "approved",
			Start:      time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
			End:        time.Date(2025, 4, 1, 11, 0, 0, 0, time.UTC),
		}
		s.uc.createFn = func(context.Context, uuid.UUID, reqdto.CreateBookingRequest) (*readmodel.BookingRM, error) {
			return nil, &usecase.ConflictError{Conflicts: []*readmodel.BookingFeedRM{conflict}}
		}

		rec := s.request(http.MethodPost, "/bookings", validCreateBody(), true)
		s.Equal(http.StatusConflict, rec.Code)

		var resp resdto.ConflictResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.NotEmpty(resp.Error.Message)
		s.Require().Len(resp.ConflictingBookings, 1)
		s.Equal(conflict.ID, resp.ConflictingBookings[0].ID)
	})

	s.Run("施設が見つからない場合は404", func() {
		s.uc.createFn = func(context.Context, uuid.UUID, reqdto.CreateBookingRequest) (*readmodel.BookingRM, error) {
			return nil, errs.ErrFacilityNotFound
		}

		rec := s.request(http.MethodPost, "/bookings", validCreateBody(), true)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("閉鎖期間は422", func() {
		s.uc.createFn = func(context.Context, uuid.UUID, reqdto.CreateBookingRequest) (*readmodel.BookingRM, error) {
			return nil, usecase.ErrFacilityClosed
		}

		rec := s.request(http.MethodPost, "/bookings", validCreateBody(), true)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("不正なボディは400", func() {
		rec := s.request(http.MethodPost, "/bookings", `{"facilityId": 42}`, true)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	s.Run("所有者以外は403", func() {
		s.uc.cancelFn = func(context.Context, uuid.UUID, user.Role, uuid.UUID) (*readmodel.BookingRM, error) {
			return nil, errs.ErrNotBookingOwner
		}

		rec := s.request(http.MethodPost, "/bookings/"+uuid.NewString()+"/cancel", "", true)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("不正なIDは400", func() {
		rec := s.request(http.MethodPost, "/bookings/not-a-uuid/cancel", "", true)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestConfirmArrival() {
	s.Run("期限切れは410", func() {
		s.uc.arrivalFn = func(context.Context, uuid.UUID, uuid.UUID) (*readmodel.BookingRM, error) {
			return nil, errs.ErrArrivalWindowClosed
		}

		rec := s.request(http.MethodPost, "/bookings/"+uuid.NewString()+"/confirm-arrival", "", true)
		s.Equal(http.StatusGone, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestGetFeed() {
	ref := availability.BookingRef{
		ID:         uuid.New(),
		FacilityID: uuid.New(),
		Status:     "approved",
		Start:      time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 4, 1, 11, 0, 0, 0, time.UTC),
	}

	s.Run("未認証でも公開フィードを取得できる", func() {
		s.uc.feedFn = func(_ context.Context, userID *uuid.UUID) ([]availability.BookingRef, error) {
			s.Nil(userID)
			return []availability.BookingRef{ref}, nil
		}

		rec := s.request(http.MethodGet, "/bookings/all", "", false)
		s.Equal(http.StatusOK, rec.Code)

		var entries []resdto.FeedEntryResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &entries))
		s.Require().Len(entries, 1)
		s.Equal(ref.ID, entries[0].ID)
		s.False(entries[0].Mine)
	})

	s.Run("認証済みなら自分の予約を含むフィード", func() {
		mine := ref
		mine.Mine = true
		s.uc.feedFn = func(_ context.Context, userID *uuid.UUID) ([]availability.BookingRef, error) {
			s.Require().NotNil(userID)
			s.Equal(s.userID, *userID)
			return []availability.BookingRef{mine}, nil
		}

		rec := s.request(http.MethodGet, "/bookings/all", "", true)
		s.Equal(http.StatusOK, rec.Code)

		var entries []resdto.FeedEntryResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &entries))
		s.Require().Len(entries, 1)
		s.True(entries[0].Mine)
	})
}
