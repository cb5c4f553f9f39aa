package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/writeflow/authsvc/internal/auth"
	"github.com/writeflow/authsvc/internal/domain/user"
	"github.com/writeflow/authsvc/internal/http/middlewares"
	"github.com/writeflow/authsvc/internal/observability"
	"github.com/writeflow/authsvc/internal/token"
)

// Authenticator is the service contract this transport layer drives.
type Authenticator interface {
	SignUp(ctx context.Context, email, password string, role user.Role) (user.User, error)
	Login(ctx context.Context, email, password string) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
}

type AuthHandler struct {
	svc  Authenticator
	prom *observability.Prom
}

func NewAuthHandler(svc Authenticator, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		svc:  svc,
		prom: prom,
	}
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email,max=320"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) observe(op, result string) {
	if h.prom != nil {
		h.prom.ObserveAuth(op, result)
	}
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	role := user.Role("")

	if req.Role != "" {
		parsed, err := user.ParseRole(req.Role)

		if err != nil {
			RespondBadRequest(ctx, "invalid_role", "Role must be Author, Editor or Admin.", nil)
			return
		}

		role = parsed
	}

	u, err := h.svc.SignUp(ctx.Request.Context(), req.Email, req.Password, role)

	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			h.observe("signup", "rejected")
			RespondBadRequest(ctx, "email_taken", "Email already registered.", nil)
			return
		}

		h.observe("signup", "error")
		RespondInternal(ctx, "Could not create user")
		return
	}

	h.observe("signup", "ok")

	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	pair, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)

	if err != nil {
		// One answer for unknown email, wrong password and inactive
		// account; nothing for an enumeration probe to read.
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.observe("login", "rejected")
			RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		h.observe("login", "error")
		RespondInternal(ctx, "Could not log in")
		return
	}

	h.observe("login", "ok")

	ctx.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(ctx *gin.Context) {
	var req RefreshRequest

	if !BindJSON(ctx, &req) {
		return
	}

	pair, err := h.svc.Refresh(ctx.Request.Context(), req.RefreshToken)

	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			h.observe("refresh", "rejected")
			RespondUnauthorized(ctx, "invalid_refresh", "Invalid refresh token.")
			return
		}

		h.observe("refresh", "error")
		RespondInternal(ctx, "Could not refresh session")
		return
	}

	h.observe("refresh", "ok")

	ctx.JSON(http.StatusOK, pair)
}

// Me returns the identity RequireAuth already resolved against the store.
func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	ctx.JSON(http.StatusOK, u)
}
