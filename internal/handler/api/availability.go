package api

import (
	"errors"
	"net/http"
	"time"

	resdto "campus-booking/internal/handler/dto/response"
	"campus-booking/internal/handler/middleware"
	"campus-booking/internal/pkg/clock"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityUseCase usecase.AvailabilityUseCase
	clock               clock.Clock
}

func NewAvailabilityHandler(availabilityUseCase usecase.AvailabilityUseCase, clk clock.Clock) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUseCase: availabilityUseCase,
		clock:               clk,
	}
}

// @Summary Facility dashboard
// @Description Derived status of every facility at the current instant
// @Tags availability
// @Produce json
// @Success 200 {array} resdto.DashboardEntryResponse
// @Router /availability [get]
func (h *AvailabilityHandler) GetDashboard(c *gin.Context) {
	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	entries, err := h.availabilityUseCase.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromDashboard(entries))
}

// @Summary Facility status
// @Description Derived status of one facility at the current instant
// @Tags availability
// @Produce json
// @Param id path string true "Facility ID"
// @Success 200 {object} resdto.DashboardEntryResponse
// @Failure 404 {object} map[string]string
// @Router /availability/{id} [get]
func (h *AvailabilityHandler) GetFacilityStatus(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid facility ID",
		})
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	fa, err := h.availabilityUseCase.GetFacilityStatus(c.Request.Context(), facilityID, userID)
	if err != nil {
		if errors.Is(err, errs.ErrFacilityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Facility not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromFacilityAvailability(*fa))
}

// @Summary Daily slot grid
// @Description 30-minute slot grid over the operating window, with coalesced ranges
// @Tags availability
// @Produce json
// @Param id path string true "Facility ID"
// @Param date query string false "Date (YYYY-MM-DD, default today)"
// @Success 200 {object} resdto.DayGridResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /availability/{id}/slots [get]
func (h *AvailabilityHandler) GetDayGrid(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid facility ID",
		})
		return
	}

	date := h.clock.Now()
	if raw := c.Query("date"); raw != "" {
		date, err = time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date format, expected YYYY-MM-DD",
			})
			return
		}
	}

	grid, err := h.availabilityUseCase.GetDayGrid(c.Request.Context(), facilityID, date)
	if err != nil {
		if errors.Is(err, errs.ErrFacilityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Facility not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromDayGrid(grid))
}
