package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pickupapp/internal/models"
	"pickupapp/internal/utils"
)

const (
	ContextPrincipalID   = "principal_id"
	ContextPrincipalKind = "principal_kind"
)

// Authenticator resolves a bearer token to a principal.
type Authenticator interface {
	Authenticate(token string) (*models.Principal, error)
}

// AuthRequired validates the bearer token and stores the principal on the context.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.UnauthorizedResponse(c, utils.ErrMsgMissingToken)
			c.Abort()
			return
		}

		principal, err := auth.Authenticate(token)
		if err != nil {
			utils.UnauthorizedResponse(c, utils.ErrMsgInvalidToken)
			c.Abort()
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuth attaches a principal when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if principal, err := auth.Authenticate(token); err == nil {
				setPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

// UserRequired must run after AuthRequired.
func UserRequired() gin.HandlerFunc {
	return requireKind(models.PrincipalUser, utils.ErrMsgUserRoleRequired)
}

// DriverRequired must run after AuthRequired.
func DriverRequired() gin.HandlerFunc {
	return requireKind(models.PrincipalDriver, utils.ErrMsgDriverRoleRequired)
}

func requireKind(kind models.PrincipalKind, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			utils.UnauthorizedResponse(c, utils.ErrMsgMissingToken)
			c.Abort()
			return
		}
		if principal.Kind != kind {
			utils.ForbiddenResponse(c, message)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the principal set by AuthRequired or OptionalAuth.
func GetPrincipal(c *gin.Context) (*models.Principal, bool) {
	rawID, exists := c.Get(ContextPrincipalID)
	if !exists {
		return nil, false
	}
	id, ok := rawID.(primitive.ObjectID)
	if !ok {
		return nil, false
	}
	kind, ok := c.Get(ContextPrincipalKind)
	if !ok {
		return nil, false
	}
	k, ok := kind.(models.PrincipalKind)
	if !ok {
		return nil, false
	}
	return &models.Principal{ID: id, Kind: k}, true
}

func setPrincipal(c *gin.Context, principal *models.Principal) {
	c.Set(ContextPrincipalID, principal.ID)
	c.Set(ContextPrincipalKind, principal.Kind)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
