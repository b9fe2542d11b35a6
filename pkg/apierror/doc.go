// Package apierror 提供带错误码的错误类型，用于 HTTP 层的统一错误处理
//
// 错误响应格式为 JSON：
//
//	{
//	    "errors": [
//	        {
//	            "code": "InvalidProductID.NotFound",
//	            "message": "The product ID 'prod-1a2b3c4d' does not exist"
//	        }
//	    ],
//	    "requestID": "ea966190-f9aa-478e-9ede-example"
//	}
//
// 使用示例：
//
//	// 创建错误
//	err := apierror.NewError("InvalidProductID.NotFound", "The product ID 'prod-1a2b3c4d' does not exist")
//
//	// 创建错误响应
//	errorResp := apierror.NewErrorResponse("request-id", err)
//
//	// 在 gin 中使用
//	c.JSON(http.StatusNotFound, errorResp)
//
// 预定义的错误变量见 errors.go，可在代码中直接使用：
//
//	if errors.Is(err, apierror.ErrProductNotFound) { ... }
package apierror
