package handlers

import (
	"github.com/gin-gonic/gin"

	"pickupapp/internal/services"
	"pickupapp/internal/utils"
)

type DiscountHandler struct {
	discounts services.DiscountService
}

func NewDiscountHandler(discounts services.DiscountService) *DiscountHandler {
	return &DiscountHandler{discounts: discounts}
}

func (h *DiscountHandler) Active(c *gin.Context) {
	discounts, err := h.discounts.Active(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Active discounts retrieved successfully", discounts, len(discounts))
}

func (h *DiscountHandler) Validate(c *gin.Context) {
	discount, err := h.discounts.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Discount code is valid", discount)
}
