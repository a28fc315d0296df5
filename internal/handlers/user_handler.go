package handlers

import (
	"github.com/gin-gonic/gin"

	"pickupapp/internal/models"
	"pickupapp/internal/services"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
)

type UserHandler struct {
	identity services.IdentityService
	accounts services.AccountService
}

func NewUserHandler(identity services.IdentityService, accounts services.AccountService) *UserHandler {
	return &UserHandler{
		identity: identity,
		accounts: accounts,
	}
}

// Register creates a passenger account
func (h *UserHandler) Register(c *gin.Context) {
	var request validators.RegisterUserRequest
	if !bindAndValidate(c, &request) {
		return
	}

	user, err := h.identity.RegisterUser(c.Request.Context(), &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "User registered successfully", user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var request validators.LoginRequest
	if !bindAndValidate(c, &request) {
		return
	}

	token, err := h.identity.Login(c.Request.Context(), models.PrincipalUser, &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", token)
}

func (h *UserHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.accounts.GetUser(c.Request.Context(), p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User retrieved successfully", user)
}

func (h *UserHandler) Stats(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	stats, err := h.accounts.UserStats(c.Request.Context(), p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "User stats retrieved successfully", stats)
}
