package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pickupapp/internal/middleware"
	"pickupapp/internal/models"
	"pickupapp/internal/services"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
)

type TourHandler struct {
	tours services.TourService
}

func NewTourHandler(tours services.TourService) *TourHandler {
	return &TourHandler{tours: tours}
}

func (h *TourHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var request validators.CreateTourRequest
	if !bindAndValidate(c, &request) {
		return
	}

	tour, err := h.tours.CreateTour(c.Request.Context(), p.ID, &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Tour created successfully", tour)
}

// List accepts from_location, to_location, max_price and date query parameters.
// A user token hides tours the user has already booked.
func (h *TourHandler) List(c *gin.Context) {
	filter := &models.TourFilter{
		FromLocation: strings.TrimSpace(c.Query("from_location")),
		ToLocation:   strings.TrimSpace(c.Query("to_location")),
	}

	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil || maxPrice < 0 {
			utils.BadRequestResponse(c, "max_price must be a non-negative number")
			return
		}
		filter.MaxPrice = &maxPrice
	}

	if raw := c.Query("date"); raw != "" {
		after, err := utils.ParseDateOrTime(raw)
		if err != nil {
			utils.BadRequestResponse(c, "date must be YYYY-MM-DD or RFC 3339")
			return
		}
		filter.DepartAfter = &after
	}

	var viewer *models.Principal
	if p, ok := middleware.GetPrincipal(c); ok {
		viewer = p
	}

	tours, err := h.tours.ListActiveTours(c.Request.Context(), filter, viewer)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Tours retrieved successfully", tours, len(tours))
}

func (h *TourHandler) Get(c *gin.Context) {
	id, ok := paramObjectID(c, "id", "tour")
	if !ok {
		return
	}

	tour, err := h.tours.GetTour(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Tour retrieved successfully", tour)
}
