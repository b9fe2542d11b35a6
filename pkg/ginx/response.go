package ginx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jimyag/productstags/pkg/apierror"
)

// renderResponse 渲染 JSON 响应
func renderResponse(ctx *gin.Context, response any) {
	if response == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	switch v := response.(type) {
	case string:
		ctx.String(http.StatusOK, v)
	case []byte:
		ctx.Data(http.StatusOK, "application/octet-stream", v)
	default:
		ctx.JSON(http.StatusOK, response)
	}
}

// renderError 渲染错误响应
// *apierror.Error 按其错误码和 HTTPStatus 渲染，其他错误渲染为 InternalError
func renderError(ctx *gin.Context, statusCode int, err error) {
	requestID := ctx.GetHeader("X-Request-ID")

	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		status := apiErr.HTTPStatus
		if status == 0 {
			status = statusCode
		}
		ctx.AbortWithStatusJSON(status, apierror.NewErrorResponse(requestID, apiErr))
		return
	}

	// 400 来自绑定/校验失败，保留状态码并带上错误消息
	if statusCode == http.StatusBadRequest {
		ctx.AbortWithStatusJSON(statusCode, apierror.NewErrorResponse(
			requestID,
			apierror.WrapError(apierror.ErrInvalidParameter, err.Error(), err),
		))
		return
	}

	// 未知错误不向客户端泄漏内部细节
	ctx.AbortWithStatusJSON(statusCode, apierror.NewErrorResponse(requestID, apierror.ErrInternalError))
}
