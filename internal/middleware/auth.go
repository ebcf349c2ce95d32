package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nexus-esports/nexushub/pkg/token"
)

const (
	AuthAdminIDKey = "auth_admin_id"
	AuthRoleKey    = "auth_role"
)

func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Expected: Bearer <token>"})
			return
		}

		claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			return
		}

		var exists bool
		if err := db.Table("admins").Select("1").Where("id = ? AND deleted_at IS NULL", claims.AdminID).Scan(&exists).Error; err != nil || !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin not found or inactive"})
			return
		}

		c.Set(AuthAdminIDKey, claims.AdminID)
		c.Set(AuthRoleKey, claims.Role)
		c.Next()
	}
}

// GetAdminIDFromContext extracts the admin ID from the context
func GetAdminIDFromContext(c *gin.Context) (uint, error) {
	adminID, exists := c.Get(AuthAdminIDKey)
	if !exists {
		return 0, errors.New("admin ID not found in context")
	}

	aid, ok := adminID.(uint)
	if !ok {
		return 0, fmt.Errorf("admin ID has unexpected type: %T", adminID)
	}

	return aid, nil
}
