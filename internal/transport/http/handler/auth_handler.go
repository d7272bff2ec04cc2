package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-api/internal/service"
	mdw "inventory-api/internal/transport/http/middleware"
	"inventory-api/internal/transport/http/response"
)

type AuthHandler struct {
	svc *service.AuthService
	dev bool
}

func NewAuthHandler(svc *service.AuthService, dev bool) *AuthHandler {
	return &AuthHandler{svc: svc, dev: dev}
}

type registerReq struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required,max=64"`
	LastName  string `json:"lastName" binding:"required,max=64"`
	Role      string `json:"role" binding:"omitempty,oneof=admin manager user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFail(c, err)
		return
	}
	out, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
	})
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusCreated, response.OK("user registered", out))
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFail(c, err)
		return
	}
	out, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("login successful", out))
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.svc.CurrentUser(c.Request.Context(), c.GetString(mdw.KeyUserID))
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, response.Fail("user not found"))
		return
	}
	c.JSON(http.StatusOK, response.OK("ok", u))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	tok, err := h.svc.RefreshToken(c.Request.Context(), c.GetString(mdw.KeyUserID))
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("token refreshed", gin.H{"token": tok}))
}

type profileReq struct {
	FirstName    *string `json:"firstName" binding:"omitempty,max=64"`
	LastName     *string `json:"lastName" binding:"omitempty,max=64"`
	ProfileImage *string `json:"profileImage" binding:"omitempty,max=255"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var in profileReq
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFail(c, err)
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), c.GetString(mdw.KeyUserID), service.ProfileUpdate{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		ProfileImage: in.ProfileImage,
	})
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("profile updated", u))
}

type passwordReq struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in passwordReq
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFail(c, err)
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), c.GetString(mdw.KeyUserID), in.CurrentPassword, in.NewPassword); err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("password changed", nil))
}
