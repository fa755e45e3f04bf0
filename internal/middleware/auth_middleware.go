package middleware

import (
	"net/http"
	"strings"

	"mechseva/internal/models"
	"mechseva/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContextAccountID   = "account_id"
	ContextAccountType = "account_type"
)

// AuthRequired validates the bearer token and puts the account identity on
// the request context.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextAccountType, claims.AccountType)

		c.Next()
	}
}

// CustomerRequired allows only customer accounts through.
func CustomerRequired() gin.HandlerFunc {
	return requireAccountType(models.ActorKindCustomer)
}

// MechanicRequired allows only mechanic accounts through.
func MechanicRequired() gin.HandlerFunc {
	return requireAccountType(models.ActorKindMechanic)
}

// AdminRequired allows only admin accounts through.
func AdminRequired() gin.HandlerFunc {
	return requireAccountType(models.ActorKindAdmin)
}

func requireAccountType(kind models.ActorKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountType, exists := c.Get(ContextAccountType)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account type not found")
			c.Abort()
			return
		}

		typeStr, ok := accountType.(string)
		if !ok || typeStr != string(kind) {
			utils.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", string(kind)+" access required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// AccountID pulls the authenticated account id set by AuthRequired.
func AccountID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(ContextAccountID)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

// ActorFromContext builds the audit actor reference for the authenticated
// account.
func ActorFromContext(c *gin.Context) (models.ActorRef, bool) {
	id, ok := AccountID(c)
	if !ok {
		return models.ActorRef{}, false
	}

	accountType, exists := c.Get(ContextAccountType)
	if !exists {
		return models.ActorRef{}, false
	}
	typeStr, ok := accountType.(string)
	if !ok || !models.IsValidActorKind(models.ActorKind(typeStr)) {
		return models.ActorRef{}, false
	}

	return models.ActorRef{Kind: models.ActorKind(typeStr), ID: id}, true
}
