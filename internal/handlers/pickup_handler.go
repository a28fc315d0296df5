package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/services"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
)

type PickupHandler struct {
	pickups services.PickupService
}

func NewPickupHandler(pickups services.PickupService) *PickupHandler {
	return &PickupHandler{pickups: pickups}
}

func (h *PickupHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var request validators.CreatePickupRequest
	if !bindAndValidate(c, &request) {
		return
	}

	pickup, err := h.pickups.CreateRequest(c.Request.Context(), p.ID, &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Pickup request created successfully", pickup)
}

func (h *PickupHandler) MyRequests(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	requests, err := h.pickups.MyRequests(c.Request.Context(), p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Pickup requests retrieved successfully", requests, len(requests))
}

// Pending lists requests still waiting for a driver, with requester contact info.
func (h *PickupHandler) Pending(c *gin.Context) {
	requests, err := h.pickups.PendingRequests(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Pending requests retrieved successfully", requests, len(requests))
}

func (h *PickupHandler) All(c *gin.Context) {
	requests, err := h.pickups.AllRequests(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Pickup requests retrieved successfully", requests, len(requests))
}

func (h *PickupHandler) UserCancel(c *gin.Context) {
	h.transition(c, "Pickup request cancelled", h.pickups.UserCancel)
}

func (h *PickupHandler) Accept(c *gin.Context) {
	h.transition(c, "Pickup request accepted", h.pickups.DriverAccept)
}

func (h *PickupHandler) DriverCancel(c *gin.Context) {
	h.transition(c, "Pickup request released", h.pickups.DriverCancel)
}

func (h *PickupHandler) Complete(c *gin.Context) {
	h.transition(c, "Pickup request completed", h.pickups.DriverComplete)
}

type pickupTransition func(ctx context.Context, requestID, actorID primitive.ObjectID) (*models.PickupRequest, error)

func (h *PickupHandler) transition(c *gin.Context, message string, apply pickupTransition) {
	id, ok := paramObjectID(c, "id", "request")
	if !ok {
		return
	}
	p, ok := principal(c)
	if !ok {
		return
	}

	pickup, err := apply(c.Request.Context(), id, p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, message, pickup)
}
