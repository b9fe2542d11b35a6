package ginx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// bindArgs 绑定请求参数到 args 结构体
// 优先级：JSON Body > URI 参数 > Query 参数 > Form 参数
func bindArgs(ctx *gin.Context, args interface{}) error {
	// 1. 尝试从 JSON body 绑定
	// 直接尝试绑定，不依赖 ContentLength（因为 ContentLength 可能不准确）
	if ctx.Request.Method != http.MethodGet {
		if err := ctx.ShouldBindJSON(args); err == nil {
			// JSON 绑定成功，同时尝试绑定 URI 和 Query 参数
			_ = ctx.ShouldBindUri(args)
			_ = ctx.ShouldBindQuery(args)
			return nil
		}
	}

	// 2. 尝试从 URI 参数绑定
	if err := ctx.ShouldBindUri(args); err == nil {
		// URI 绑定成功，同时绑定 Query 参数
		_ = ctx.ShouldBindQuery(args)
		return nil
	}

	// 3. 尝试从 Query 参数绑定
	if err := ctx.ShouldBindQuery(args); err == nil {
		return nil
	}

	// 4. 最后尝试 Form 绑定
	return ctx.ShouldBind(args)
}
