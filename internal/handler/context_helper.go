package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/school-portal/admin-api/internal/middleware"
	"github.com/school-portal/admin-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}
