package apierror

import "net/http"

// 产品标签服务的预定义错误
var (
	// ErrProductNotFound 产品不存在
	ErrProductNotFound = &Error{
		Code:       "InvalidProductID.NotFound",
		Message:    "The specified product does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrSiteNotFound 列表页不存在
	ErrSiteNotFound = &Error{
		Code:       "InvalidSiteID.NotFound",
		Message:    "The specified category site does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrTagNotFound 标签在字典中不存在
	ErrTagNotFound = &Error{
		Code:       "InvalidTag.NotFound",
		Message:    "The specified tag does not exist in the tag dictionary.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrLanguageNotEnabled 请求的语言未在项目中启用
	ErrLanguageNotEnabled = &Error{
		Code:       "InvalidLanguage.NotEnabled",
		Message:    "The requested language is not enabled for this project.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrInvalidProductID 产品 ID 含有非法字符
	ErrInvalidProductID = &Error{
		Code:       "InvalidParameterValue.ProductID",
		Message:    "The product id contains characters that are not allowed.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrInvalidTagName 标签名不符合规范
	ErrInvalidTagName = &Error{
		Code:       "InvalidParameterValue.TagName",
		Message:    "The tag name contains characters that are not allowed.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrInvalidParameter 请求参数非法
	ErrInvalidParameter = &Error{
		Code:       "InvalidParameterValue",
		Message:    "A parameter specified in the request is not valid.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrBulkRunInProgress 全量重建正在进行，写入被拒绝
	ErrBulkRunInProgress = &Error{
		Code:       "ResourceBusy.BulkRun",
		Message:    "A bulk index regeneration is in progress. Retry the request later.",
		HTTPStatus: http.StatusConflict,
	}

	// ErrInternalError 发生了内部错误
	ErrInternalError = &Error{
		Code:       "InternalError",
		Message:    "An internal error has occurred. Retry your request, but if the problem persists, check the server logs.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
