package ez

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"mailsort-api/internal/domain"
	resp "mailsort-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindStrictJSON Binder = "strict_json" // 未知字段直接 400，之后跑 binding 校验
	BindNone       Binder = "none"        // 不绑定，handler 内自行处理
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/users"、"/emails/:id"
	Binder  Binder
	Status  int // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindStrictJSON:
			bindErr = bindStrict(c, &in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			Fail(c, domain.Invalid("", bindErr.Error()))
			return
		}

		// 2) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func bindStrict(c *gin.Context, obj any) error {
	if c.Request.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(obj); err != nil {
		return err
	}
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(obj)
}

// BindBody 在 handler 内部按需绑定 JSON，失败返回校验错误
func BindBody(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return domain.Invalid("", err.Error())
	}
	return nil
}

// Fail 统一错误映射：校验 400 > 不存在 404 > 超时 504 > 其余 500（原因挂到 c.Errors 交给访问日志）
func Fail(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusBadRequest, resp.Error(resp.CodeBadRequest, ve.Error()))
	case errors.Is(err, domain.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, resp.Error(resp.CodeNotFound, ""))
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, resp.Error(resp.CodeGatewayTimeout, ""))
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
	}
}

// ParamID 解析 :id；非正整数按不存在处理
func ParamID(c *gin.Context) (uint, error) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || v == 0 {
		return 0, domain.ErrNotFound
	}
	return uint(v), nil
}
