package handlers

import (
	"github.com/gin-gonic/gin"

	"pickupapp/internal/services"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
)

type BookingHandler struct {
	bookings services.BookingService
}

func NewBookingHandler(bookings services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var request validators.CreateBookingRequest
	if !bindAndValidate(c, &request) {
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), p.ID, &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Booking created successfully", booking)
}

func (h *BookingHandler) MyBookings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	bookings, err := h.bookings.MyBookings(c.Request.Context(), p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Bookings retrieved successfully", bookings, len(bookings))
}

func (h *BookingHandler) DriverBookings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	bookings, err := h.bookings.DriverBookings(c.Request.Context(), p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Bookings retrieved successfully", bookings, len(bookings))
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := paramObjectID(c, "id", "booking")
	if !ok {
		return
	}
	p, ok := principal(c)
	if !ok {
		return
	}

	booking, err := h.bookings.CancelBooking(c.Request.Context(), id, p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking cancelled successfully", booking)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := paramObjectID(c, "id", "booking")
	if !ok {
		return
	}
	p, ok := principal(c)
	if !ok {
		return
	}

	booking, err := h.bookings.CompleteBooking(c.Request.Context(), id, p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking marked as completed", booking)
}
