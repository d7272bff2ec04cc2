package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-api/internal/service"
	"inventory-api/internal/transport/http/response"
)

// fail 规则层错误 → 状态码 + 信封；非 dev 环境压掉底层细节
func fail(c *gin.Context, err error, dev bool) {
	if se, ok := service.AsError(err); ok {
		body := response.Fail(se.Msg)
		if dev && se.Err != nil {
			body = response.FailDetail(se.Msg, se.Err.Error())
		}
		c.JSON(se.Status, body)
		return
	}
	if dev {
		c.JSON(http.StatusInternalServerError, response.FailDetail("internal error", err.Error()))
		return
	}
	c.JSON(http.StatusInternalServerError, response.Fail("internal error"))
}

// bindFail 绑定失败 → 400，带字段级错误（如有）
func bindFail(c *gin.Context, err error) {
	if fields := response.BindingFields(err); fields != nil {
		c.JSON(http.StatusBadRequest, response.FailFields("validation failed", fields))
		return
	}
	c.JSON(http.StatusBadRequest, response.FailDetail("invalid request", err.Error()))
}
