package response

// 错误码直接复用 HTTP 状态码
const (
	CodeBadRequest         = 400
	CodeNotFound           = 404
	CodePayloadTooLarge    = 413
	CodeServerError        = 500
	CodeServiceUnavailable = 503
	CodeGatewayTimeout     = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeBadRequest:         "Bad Request",
	CodeNotFound:           "not found",
	CodePayloadTooLarge:    "request body too large",
	CodeServerError:        "Internal Server Error",
	CodeServiceUnavailable: "Service Unavailable",
	CodeGatewayTimeout:     "timeout",
}
