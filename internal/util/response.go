package util

import (
	"net/http"

	"portfolio_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应包装，code 与 HTTP 状态码保持一致方便前端判断
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 列表接口的分页载荷，作为 Response.Data 返回
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
		Data:    data,
	})
}

// Success 200 响应
func Success(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, "success", data)
}

// Created 201 响应，资源创建类接口使用
func Created(c *gin.Context, data interface{}) {
	respond(c, http.StatusCreated, "created", data)
}

// Error 按给定状态码返回错误信息，message 直接展示给用户
func Error(c *gin.Context, code int, message string) {
	respond(c, code, message, nil)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "未登录或登录已过期")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "没有权限执行该操作")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "资源不存在")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "服务器内部错误，请稍后再试")
}

// LogInternalError 记录原始错误并向客户端返回笼统的 500
// 错误细节只进日志，避免内部信息泄露给前端
func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("internal server error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	InternalServerError(c)
}
