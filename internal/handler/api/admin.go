package api

import (
	"context"
	"errors"
	"net/http"

	reqdto "campus-booking/internal/handler/dto/request"
	resdto "campus-booking/internal/handler/dto/response"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase"
	"campus-booking/internal/usecase/readmodel"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminUseCase        usecase.AdminUseCase
	notificationUseCase usecase.NotificationUseCase
}

func NewAdminHandler(adminUseCase usecase.AdminUseCase, notificationUseCase usecase.NotificationUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase:        adminUseCase,
		notificationUseCase: notificationUseCase,
	}
}

// @Summary List all bookings
// @Description List bookings across users, optionally filtered by status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query []string false "Status filter" collectionFormat(multi)
// @Success 200 {array} resdto.BookingResponse
// @Router /admin/bookings [get]
func (h *AdminHandler) ListBookings(c *gin.Context) {
	statuses := c.QueryArray("status")

	rms, err := h.adminUseCase.ListBookings(c.Request.Context(), statuses)
	if err != nil {
		if errors.Is(err, errs.ErrDomainValidationFailed) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status filter",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRMs(rms))
}

// @Summary Approve booking
// @Description Approve a pending booking and arm its arrival deadline
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.DecisionRequest false "Optional admin response"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} resdto.ConflictResponse
// @Failure 422 {object} map[string]string
// @Router /admin/bookings/{id}/approve [post]
func (h *AdminHandler) ApproveBooking(c *gin.Context) {
	h.decide(c, h.adminUseCase.ApproveBooking)
}

// @Summary Deny booking
// @Description Deny a pending booking
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.DecisionRequest false "Optional admin response"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/bookings/{id}/deny [post]
func (h *AdminHandler) DenyBooking(c *gin.Context) {
	h.decide(c, h.adminUseCase.DenyBooking)
}

type decisionOp func(ctx context.Context, bookingID uuid.UUID, req reqdto.DecisionRequest) (*readmodel.BookingRM, error)

func (h *AdminHandler) decide(c *gin.Context, op decisionOp) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID",
		})
		return
	}

	// The body is optional; an absent body means no admin response text.
	var req reqdto.DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	rm, err := op(c.Request.Context(), bookingID, req)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRM(rm))
}

// @Summary Set equipment preparation state
// @Description Record staff progress on one requested equipment item
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.PrepStateRequest true "Item and new state"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/bookings/{id}/prep [put]
func (h *AdminHandler) SetPrepState(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid booking ID",
		})
		return
	}

	var req reqdto.PrepStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.adminUseCase.SetPrepState(c.Request.Context(), bookingID, req)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingRM(rm))
}

// @Summary Create facility
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateFacilityRequest true "Facility"
// @Success 201 {object} resdto.FacilityResponse
// @Failure 400 {object} map[string]string
// @Router /admin/facilities [post]
func (h *AdminHandler) CreateFacility(c *gin.Context) {
	var req reqdto.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.adminUseCase.CreateFacility(c.Request.Context(), req)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromFacilityRM(rm))
}

// @Summary Update facility
// @Description Update facility fields, including taking it out of service
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Facility ID"
// @Param request body reqdto.UpdateFacilityRequest true "Updated fields"
// @Success 200 {object} resdto.FacilityResponse
// @Failure 404 {object} map[string]string
// @Router /admin/facilities/{id} [put]
func (h *AdminHandler) UpdateFacility(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid facility ID",
		})
		return
	}

	var req reqdto.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.adminUseCase.UpdateFacility(c.Request.Context(), facilityID, req)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromFacilityRM(rm))
}

// @Summary Add facility closure
// @Description Block a facility for a period (maintenance, events)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Facility ID"
// @Param request body reqdto.ClosureRequest true "Closure period"
// @Success 200 {object} resdto.FacilityResponse
// @Failure 404 {object} map[string]string
// @Router /admin/facilities/{id}/closures [post]
func (h *AdminHandler) AddClosure(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid facility ID",
		})
		return
	}

	var req reqdto.ClosureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	rm, err := h.adminUseCase.AddClosure(c.Request.Context(), facilityID, req)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromFacilityRM(rm))
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} readmodel.AuthorizedUserRM
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	rms, err := h.adminUseCase.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, rms)
}

// @Summary Ban user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} readmodel.AuthorizedUserRM
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/users/{id}/ban [post]
func (h *AdminHandler) BanUser(c *gin.Context) {
	h.setUserStatus(c, h.adminUseCase.BanUser)
}

// @Summary Unban user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} readmodel.AuthorizedUserRM
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id}/unban [post]
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	h.setUserStatus(c, h.adminUseCase.UnbanUser)
}

func (h *AdminHandler) setUserStatus(c *gin.Context, op func(ctx context.Context, userID uuid.UUID) (*readmodel.AuthorizedUserRM, error)) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	rm, err := op(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, rm)
}

// @Summary Broadcast alert
// @Description Create an alert, optionally targeted at one user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateAlertRequest true "Alert"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /admin/alerts [post]
func (h *AdminHandler) CreateAlert(c *gin.Context) {
	var req reqdto.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	a, err := h.notificationUseCase.CreateAlert(c.Request.Context(), req)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": a.ID().String()})
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrFacilityNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Facility not found",
		})
	case errors.Is(err, errs.ErrDomainValidationFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Request failed validation",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
