package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/school-portal/admin-api/internal/models"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
	"github.com/school-portal/admin-api/pkg/response"
)

// RequireRoles allows only the listed roles through. It expects JWT to have
// run first.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireManagement allows any of the portal management roles.
func RequireManagement() gin.HandlerFunc {
	return RequireRoles(models.ManagementRoles...)
}
