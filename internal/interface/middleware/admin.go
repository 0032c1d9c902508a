package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	"github.com/shoplite/shoplite-api/pkg/response"
)

// AdminOnly rejects requests whose session role is not admin. It runs after
// Auth, so a rejected request has touched nothing and logged nothing.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") != entity.RoleAdmin {
			resp := response.Error[any](c, http.StatusForbidden, "admin access required", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}
