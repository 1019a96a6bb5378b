package api

import (
	"errors"
	"net/http"

	resdto "campus-booking/internal/handler/dto/response"
	"campus-booking/internal/pkg/errs"
	"campus-booking/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FacilityHandler struct {
	facilityUseCase usecase.FacilityUseCase
}

func NewFacilityHandler(facilityUseCase usecase.FacilityUseCase) *FacilityHandler {
	return &FacilityHandler{
		facilityUseCase: facilityUseCase,
	}
}

// @Summary List facilities
// @Description List all bookable facilities
// @Tags facilities
// @Produce json
// @Success 200 {array} resdto.FacilityResponse
// @Router /facilities [get]
func (h *FacilityHandler) ListFacilities(c *gin.Context) {
	rms, err := h.facilityUseCase.ListFacilities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromFacilityRMs(rms))
}

// @Summary Get facility
// @Description Get one facility with its closures
// @Tags facilities
// @Produce json
// @Param id path string true "Facility ID"
// @Success 200 {object} resdto.FacilityResponse
// @Failure 404 {object} map[string]string
// @Router /facilities/{id} [get]
func (h *FacilityHandler) GetFacility(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid facility ID",
		})
		return
	}

	rm, err := h.facilityUseCase.GetFacility(c.Request.Context(), facilityID)
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

	c.JSON(http.StatusOK, resdto.FromFacilityRM(rm))
}
