package ginx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Adapt0 适配无参数、无返回值的 handler
func Adapt0(fn func(*gin.Context)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(ctx)
	}
}

// Adapt1 适配无参数、只有 error 的 handler
func Adapt1(fn func(*gin.Context) error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := fn(ctx); err != nil {
			renderError(ctx, http.StatusInternalServerError, err)
			return
		}
		ctx.Status(http.StatusNoContent)
	}
}

// Adapt2 适配无参数、只有返回值的 handler
func Adapt2[T any](fn func(*gin.Context) T) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		renderResponse(ctx, fn(ctx))
	}
}

// Adapt3 适配无参数、有返回值和 error 的 handler
func Adapt3[T any](fn func(*gin.Context) (T, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := fn(ctx)
		if err != nil {
			renderError(ctx, http.StatusInternalServerError, err)
			return
		}
		renderResponse(ctx, result)
	}
}

// Adapt4 适配有参数、只有 error 的 handler
func Adapt4[T any](fn func(*gin.Context, *T) error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		args, ok := bindAndValidate[T](ctx)
		if !ok {
			return
		}

		if err := fn(ctx, args); err != nil {
			renderError(ctx, http.StatusInternalServerError, err)
			return
		}

		ctx.Status(http.StatusNoContent)
	}
}

// Adapt5 适配有参数、有返回值和 error 的 handler
func Adapt5[TArgs any, TResp any](fn func(*gin.Context, *TArgs) (TResp, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		args, ok := bindAndValidate[TArgs](ctx)
		if !ok {
			return
		}

		result, err := fn(ctx, args)
		if err != nil {
			renderError(ctx, http.StatusInternalServerError, err)
			return
		}

		renderResponse(ctx, result)
	}
}

// Adapt6 适配有参数、只有返回值的 handler
func Adapt6[TArgs any, TResp any](fn func(*gin.Context, *TArgs) TResp) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		args, ok := bindAndValidate[TArgs](ctx)
		if !ok {
			return
		}

		renderResponse(ctx, fn(ctx, args))
	}
}

// bindAndValidate 绑定并校验参数
// 绑定或校验失败时已渲染 400 响应，返回 false
func bindAndValidate[T any](ctx *gin.Context) (*T, bool) {
	args := new(T)

	if err := bindArgs(ctx, args); err != nil {
		renderError(ctx, http.StatusBadRequest, err)
		return nil, false
	}

	// 校验参数（如果实现了 IsValid 方法）
	if validator, ok := any(args).(interface{ IsValid() error }); ok {
		if err := validator.IsValid(); err != nil {
			renderError(ctx, http.StatusBadRequest, err)
			return nil, false
		}
	}

	return args, true
}
