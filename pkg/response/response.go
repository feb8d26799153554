package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/member-graph/pkg/errcode"
	"github.com/d60-Lab/member-graph/pkg/logger"
)

// ErrorBody 业务/校验错误：{errorCode, message}
type ErrorBody struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// StatusErrorBody HTTP 层错误：{status, errorCode, message}，errorCode 恒为 null
type StatusErrorBody struct {
	Status    int     `json:"status"`
	ErrorCode *string `json:"errorCode"`
	Message   string  `json:"message"`
}

// Slice 游标分页响应
type Slice[T any] struct {
	Content []T  `json:"content"`
	HasNext bool `json:"hasNext"`
	Size    int  `json:"size"`
}

// Success 200 + data
func Success(c *gin.Context, data any) {
	if data == nil {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, data)
}

// Created 201，可无 body
func Created(c *gin.Context, data any) {
	if data == nil {
		c.Status(http.StatusCreated)
		return
	}
	c.JSON(http.StatusCreated, data)
}

// NoContent 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest 请求校验失败
func BadRequest(c *gin.Context, msg string) {
	e := errcode.RequestValidationFail
	if msg != "" {
		e = e.WithMessage(msg)
	}
	Code(c, e)
}

// Code 写出业务错误
func Code(c *gin.Context, e *errcode.Error) {
	c.AbortWithStatusJSON(e.Status, ErrorBody{ErrorCode: e.Code, Message: e.Message})
}

// Status 写出 HTTP 层错误
func Status(c *gin.Context, status int) {
	c.AbortWithStatusJSON(status, StatusErrorBody{Status: status, Message: http.StatusText(status)})
}

// Error 业务错误按错误码输出，其余按 500 处理
func Error(c *gin.Context, err error) {
	if e, ok := errcode.From(err); ok {
		Code(c, e)
		return
	}
	InternalError(c, err)
}

// InternalError 500，记录日志并挂到 gin 上下文供 recovery/sentry 使用
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
		logger.Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	Status(c, http.StatusInternalServerError)
}
