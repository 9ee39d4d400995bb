package v1

import (
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.svc.Auth.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, pair)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.svc.Auth.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, pair)
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.svc.Auth.Me(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	u.PasswordHash = ""
	respondOK(c, u)
}

func (h *Handler) CurrentUser(c *gin.Context) {
	cur, err := h.svc.Auth.CurrentUser(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, cur)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.svc.Auth.Logout(c.Request.Context(), callerFrom(c)); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"logged_out": true})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.Auth.ChangePassword(c.Request.Context(), callerFrom(c), req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, gin.H{"changed": true})
}
