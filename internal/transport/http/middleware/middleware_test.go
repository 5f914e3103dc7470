package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	rid := w.Header().Get(KeyRequestID)
	assert.Len(t, rid, 36)
	assert.Equal(t, rid, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, "abc")
	assert.Equal(t, "abc", serve(r, req).Header().Get(KeyRequestID))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, strings.Repeat("a", 500))
	assert.Len(t, serve(r, req).Header().Get(KeyRequestID), 36)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, "a b\tc")
	assert.Len(t, serve(r, req).Header().Get(KeyRequestID), 36)
}

func TestAccessLog_MasksAndReportsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.AbortWithStatus(http.StatusInternalServerError)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/ok?password=hunter2&q=1", nil))
	require.Equal(t, 1, logs.Len())
	ok := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, ok.Level)
	assert.Equal(t, "/ok", ok.ContextMap()["path"])
	q := ok.ContextMap()["query"].(map[string][]string)
	assert.Equal(t, []string{"****"}, q["password"])
	assert.Equal(t, []string{"1"}, q["q"])

	serve(r, httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Equal(t, 2, logs.Len())
	bad := logs.All()[1]
	assert.Equal(t, zapcore.ErrorLevel, bad.Level)
	assert.EqualValues(t, http.StatusInternalServerError, bad.ContextMap()["status"])
	assert.Contains(t, bad.ContextMap()["errors"], assert.AnError.Error())
}

func TestConcurrencyLimit_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(ConcurrencyLimit(0))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

func TestConcurrencyLimit_CancelledWhileWaiting(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	r.GET("/slow", func(c *gin.Context) {
		close(entered)
		<-release
		c.Status(http.StatusOK)
	})
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	done := make(chan int)
	go func() { done <- serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil)).Code }()
	<-entered

	req := httptest.NewRequest(http.MethodGet, "/fast", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 20*time.Millisecond)
	defer cancel()
	w := serve(r, req.WithContext(ctx))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/x", func(c *gin.Context) {
		var in map[string]any
		if err := c.ShouldBindJSON(&in); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})
	small := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":1}`))
	assert.Equal(t, http.StatusOK, serve(r, small).Code)
	big := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":"0123456789"}`))
	w := serve(r, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"code":413,"msg":"request body too large","data":{}}`, w.Body.String())

	// 未声明长度：读取时截断
	chunked := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":"0123456789"}`))
	chunked.ContentLength = -1
	assert.Equal(t, http.StatusBadRequest, serve(r, chunked).Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) { <-c.Request.Context().Done() })
	r.GET("/fast", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusGatewayTimeout, serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/fast", nil)).Code)
}

func TestMetrics(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpReqTotal.WithLabelValues("/users/:id", http.MethodGet, "200"))
	serve(r, httptest.NewRequest(http.MethodGet, "/users/7", nil))
	after := testutil.ToFloat64(httpReqTotal.WithLabelValues("/users/:id", http.MethodGet, "200"))
	assert.Equal(t, before+1, after)

	serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpReqTotal.WithLabelValues("unmatched", http.MethodGet, "404")), 1.0)
}
