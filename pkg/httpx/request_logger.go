package httpx

import (
	"time"

	"github.com/Gunvolt24/wf_cart/internal/ports"
	"github.com/gin-gonic/gin"
)

// RequestLogger - одна строка на запрос; request/session/trace id логгер берёт из контекста.
// /metrics и /ping не пишутся.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		switch path {
		case "/metrics", "/ping":
			return
		case "":
			path = c.Request.URL.Path
		}

		log.Infof(
			c.Request.Context(),
			"request method=%s path=%s status=%d ip=%s duration=%s size=%d",
			c.Request.Method,
			path,
			c.Writer.Status(),
			c.ClientIP(),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}
