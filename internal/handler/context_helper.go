package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eduvillage/eduvillage-api/internal/middleware"
	"github.com/eduvillage/eduvillage-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func principalFromContext(c *gin.Context) *models.Principal {
	value, exists := c.Get(middleware.ContextPrincipalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*models.Principal)
	if !ok {
		return nil
	}
	return principal
}

// studentFromContext returns the caller's student profile, or nil when the
// caller is not a student.
func studentFromContext(c *gin.Context) *models.Student {
	principal := principalFromContext(c)
	if !principal.IsStudent() {
		return nil
	}
	return principal.Student
}
