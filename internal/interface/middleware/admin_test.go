package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func adminTestRouter(role string, hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		// stands in for Auth having populated the session context
		c.Set("userID", "u1")
		c.Set("userRole", role)
	})
	r.POST("/admin/action", AdminOnly(), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	hits := 0
	r := adminTestRouter("admin", &hits)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/action", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, hits)
}

func TestAdminOnlyRejectsCustomer(t *testing.T) {
	hits := 0
	r := adminTestRouter("customer", &hits)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/action", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, hits, "handler must not run for non-admins")
	assert.Contains(t, w.Body.String(), "admin access required")
}

func TestAdminOnlyRejectsMissingRole(t *testing.T) {
	hits := 0
	r := adminTestRouter("", &hits)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/action", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, hits)
}
