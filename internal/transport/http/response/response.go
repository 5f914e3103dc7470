package response

// Resp 错误体
type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// Message 写操作成功体：{message} 或 {message, id}
type Message struct {
	Message string `json:"message"`
	ID      uint   `json:"id,omitempty"`
}

func Msg(msg string) Message { return Message{Message: msg} }

func Created(msg string, id uint) Message { return Message{Message: msg, ID: id} }
