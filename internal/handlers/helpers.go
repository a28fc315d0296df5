package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/middleware"
	"pickupapp/internal/models"
	"pickupapp/internal/utils"
	"pickupapp/internal/validators"
)

// bindAndValidate decodes the JSON body into request and runs struct
// validation. It writes the error response itself and reports false on failure.
func bindAndValidate(c *gin.Context, request interface{}) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
		return false
	}
	if errs := validators.ValidateStruct(request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return false
	}
	return true
}

func paramObjectID(c *gin.Context, name, label string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.HandleServiceError(c, utils.NewInvalidArgumentError("Invalid "+label+" ID"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// principal is only called behind AuthRequired, so a miss means the route
// was wired without it.
func principal(c *gin.Context) (*models.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.UnauthorizedResponse(c, utils.ErrMsgMissingToken)
		return nil, false
	}
	return p, true
}
