package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "mailsort-api/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；n<=0 不限制。
// 声明的 Content-Length 超限直接 413；未声明长度的在读取时截断，绑定失败由 handler 返回 400
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp.Error(resp.CodePayloadTooLarge, ""))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
