package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/writeflow/authsvc/internal/auth"
	"github.com/writeflow/authsvc/internal/domain/user"
)

// UserAdmin covers the out-of-band account mutations reserved for admins.
type UserAdmin interface {
	SetUserRole(ctx context.Context, email string, role user.Role) (user.User, error)
	SetUserActive(ctx context.Context, email string, active bool) (user.User, error)
}

type AdminUsersHandler struct {
	svc UserAdmin
}

func NewAdminUsersHandler(svc UserAdmin) *AdminUsersHandler {
	return &AdminUsersHandler{svc: svc}
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func (h *AdminUsersHandler) SetRole(ctx *gin.Context) {
	var req SetRoleRequest

	if !BindJSON(ctx, &req) {
		return
	}

	role, err := user.ParseRole(req.Role)

	if err != nil {
		RespondBadRequest(ctx, "invalid_role", "Role must be Author, Editor or Admin.", nil)
		return
	}

	u, err := h.svc.SetUserRole(ctx.Request.Context(), ctx.Param("email"), role)

	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			RespondNotFound(ctx, "No such user.")
			return
		}

		RespondInternal(ctx, "Could not update user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AdminUsersHandler) SetActive(ctx *gin.Context) {
	var req SetActiveRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.svc.SetUserActive(ctx.Request.Context(), ctx.Param("email"), *req.IsActive)

	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			RespondNotFound(ctx, "No such user.")
			return
		}

		RespondInternal(ctx, "Could not update user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}
