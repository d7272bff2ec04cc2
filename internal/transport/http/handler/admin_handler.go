package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-api/internal/service"
	"inventory-api/internal/transport/http/response"
)

// AdminHandler 管理端：用户列表与启停用
type AdminHandler struct {
	users *service.UserService
	dev   bool
}

func NewAdminHandler(users *service.UserService, dev bool) *AdminHandler {
	return &AdminHandler{users: users, dev: dev}
}

type listUsersQuery struct {
	Q     string `form:"q"`
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit,default=10"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFail(c, err)
		return
	}
	page, err := h.users.ListUsers(c.Request.Context(), q.Q, q.Page, q.Limit)
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("ok", page))
}

type setActiveReq struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	var in setActiveReq
	if err := c.ShouldBindJSON(&in); err != nil {
		bindFail(c, err)
		return
	}
	u, err := h.users.SetActive(c.Request.Context(), c.Param("id"), *in.Active)
	if err != nil {
		fail(c, err, h.dev)
		return
	}
	c.JSON(http.StatusOK, response.OK("user updated", u))
}
