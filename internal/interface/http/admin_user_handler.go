package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/shoplite/shoplite-api/internal/application"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
	"github.com/shoplite/shoplite-api/pkg/response"
	"github.com/shoplite/shoplite-api/pkg/validation"
)

type AdminUserHandler struct {
	Svc    *app.AdminService
	Logger *logrus.Logger
}

func NewAdminUserHandler(svc *app.AdminService, logger *logrus.Logger) *AdminUserHandler {
	return &AdminUserHandler{Svc: svc, Logger: logger}
}

// List GET /api/admin/users
func (h *AdminUserHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	f := repo.UserFilter{Role: c.Query("role"), Page: page, PerPage: perPage}
	if v := c.Query("active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.IsActive = &b
		}
	}
	users, total, err := h.Svc.ListUsers(c.Request.Context(), f)
	if err != nil {
		response.Fail[any](c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	response.OK(c, http.StatusOK, toUserViews(users), "users", response.NewPage(page, perPage, total))
}

type toggleActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ToggleActive POST /api/admin/users/:id/toggle-active
func (h *AdminUserHandler) ToggleActive(c *gin.Context) {
	var req toggleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.SetUserActive(c.Request.Context(), c.GetString("userID"), c.Param("id"), *req.IsActive)
	if err != nil {
		h.writeGuardError(c, err)
		return
	}
	response.OK(c, http.StatusOK, toUserView(u), "user updated", nil)
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=customer admin"`
}

// SetRole POST /api/admin/users/:id/role
func (h *AdminUserHandler) SetRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.SetUserRole(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Role)
	if err != nil {
		h.writeGuardError(c, err)
		return
	}
	response.OK(c, http.StatusOK, toUserView(u), "role updated", nil)
}

func (h *AdminUserHandler) writeGuardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrUserNotFound):
		response.Fail[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, app.ErrSeededAdmin):
		response.Fail[any](c, http.StatusForbidden, "the seeded administrator cannot be modified", nil)
	case errors.Is(err, app.ErrSelfDisable):
		response.Fail[any](c, http.StatusForbidden, "cannot deactivate your own account", nil)
	case errors.Is(err, app.ErrInvalidRole):
		response.Fail[any](c, http.StatusBadRequest, "invalid role", nil)
	default:
		response.Fail[any](c, http.StatusInternalServerError, "failed to update user", nil)
	}
}
