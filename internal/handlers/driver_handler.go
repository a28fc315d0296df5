package handlers

import (
	"github.com/gin-gonic/gin"

	"pickupapp/internal/models"
	"pickupapp/internal/services"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
)

type DriverHandler struct {
	identity services.IdentityService
	accounts services.AccountService
	ratings  services.RatingService
}

func NewDriverHandler(identity services.IdentityService, accounts services.AccountService, ratings services.RatingService) *DriverHandler {
	return &DriverHandler{
		identity: identity,
		accounts: accounts,
		ratings:  ratings,
	}
}

func (h *DriverHandler) Register(c *gin.Context) {
	var request validators.RegisterDriverRequest
	if !bindAndValidate(c, &request) {
		return
	}

	driver, err := h.identity.RegisterDriver(c.Request.Context(), &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Driver registered successfully", driver)
}

func (h *DriverHandler) Login(c *gin.Context) {
	var request validators.LoginRequest
	if !bindAndValidate(c, &request) {
		return
	}

	token, err := h.identity.Login(c.Request.Context(), models.PrincipalDriver, &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", token)
}

// List returns drivers with their portfolios
func (h *DriverHandler) List(c *gin.Context) {
	drivers, err := h.accounts.ListDrivers(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Drivers retrieved successfully", drivers, len(drivers))
}

func (h *DriverHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	profile, err := h.accounts.GetDriver(c.Request.Context(), p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver retrieved successfully", profile)
}

func (h *DriverHandler) Stats(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	stats, err := h.accounts.DriverStats(c.Request.Context(), p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver stats retrieved successfully", stats)
}

func (h *DriverHandler) RecentActivity(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	items, err := h.accounts.RecentActivity(c.Request.Context(), p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Recent activity retrieved successfully", items, len(items))
}

func (h *DriverHandler) GetPortfolio(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	portfolio, err := h.accounts.GetPortfolio(c.Request.Context(), p.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Portfolio retrieved successfully", portfolio)
}

func (h *DriverHandler) UpdatePortfolio(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var request validators.PortfolioRequest
	if !bindAndValidate(c, &request) {
		return
	}

	portfolio, err := h.accounts.UpdatePortfolio(c.Request.Context(), p.ID, &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Portfolio updated successfully", portfolio)
}

func (h *DriverHandler) SetAvailability(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var request validators.AvailabilityRequest
	if !bindAndValidate(c, &request) {
		return
	}

	availability, err := h.accounts.SetAvailability(c.Request.Context(), p.ID, &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Availability saved successfully", availability)
}

// ListAvailability filters by ?location= (substring) and ?car_type=.
func (h *DriverHandler) ListAvailability(c *gin.Context) {
	items, err := h.accounts.ListAvailability(c.Request.Context(), c.Query("location"), c.Query("car_type"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.ListResponse(c, "Availability retrieved successfully", items, len(items))
}

// Rate records a passenger's rating of the driver in the path.
func (h *DriverHandler) Rate(c *gin.Context) {
	driverID, ok := paramObjectID(c, "id", "driver")
	if !ok {
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	var request validators.RateDriverRequest
	if !bindAndValidate(c, &request) {
		return
	}

	result, err := h.ratings.SubmitRating(c.Request.Context(), driverID, p.ID, &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Rating submitted successfully", result)
}
