package auth

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/serenityspa/wellness-api/internal/model"
	"github.com/serenityspa/wellness-api/internal/service/auth"
	"github.com/serenityspa/wellness-api/pkg/errors"
	"github.com/serenityspa/wellness-api/pkg/httputil"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	// Self-registration only creates client accounts. Therapist and admin
	// roles are granted by an admin through user management.
	if req.Role != "" && req.Role != model.RoleClient {
		httputil.RespondWithError(c, errors.Forbidden("only client accounts can self-register", nil))
		return
	}

	user, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithCreated(c, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	tokens, user, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}

	httputil.RespondWithSuccess(c, gin.H{
		"tokens": tokens,
		"user":   user,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, tokens)
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	if err := h.svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "if the address exists, a reset email has been sent"})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.BadRequest("invalid request", err))
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), &req); err != nil {
		httputil.RespondWithError(c, mapError(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"message": "password updated"})
}

func mapError(err error) error {
	switch {
	case stderrors.Is(err, auth.ErrInvalidCredentials):
		return errors.Unauthorized(err)
	case stderrors.Is(err, auth.ErrAccountLocked),
		stderrors.Is(err, auth.ErrAccountInactive):
		return errors.Forbidden(err.Error(), err)
	case stderrors.Is(err, auth.ErrEmailTaken):
		return errors.Conflict(err.Error(), err)
	case stderrors.Is(err, auth.ErrInvalidResetToken):
		return errors.BadRequest(err.Error(), err)
	default:
		return errors.Internal(err)
	}
}
