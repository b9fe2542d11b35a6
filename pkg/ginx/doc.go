// Package ginx 提供 gin handler 的适配器
//
// 业务 handler 使用 (args, result, error) 的签名，由 AdaptN 统一处理
// 参数绑定、参数校验、错误渲染和 JSON 响应渲染：
//
//	group.GET("/products/:id/tags", ginx.Adapt5(tags.GetProductTags))
//
// 参数结构体可以实现 IsValid() error 接口进行自定义校验。
// 错误如果是 *apierror.Error，会按其 HTTPStatus 和错误码渲染；
// 其他错误一律渲染为 500 InternalError。
package ginx
