package middleware

import (
	"expvar"
	"strconv"

	"github.com/gin-gonic/gin"
)

// requests counts finished requests per "METHOD route status", published at
// /debug/vars as api_requests.
var requests = expvar.NewMap("api_requests")

func Stats() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		requests.Add(c.Request.Method+" "+normalizePath(c)+" "+strconv.Itoa(c.Writer.Status()), 1)
	}
}

// RequestCount returns the counter for one method, route and status.
func RequestCount(method, path string, status int) int64 {
	v, ok := requests.Get(method + " " + path + " " + strconv.Itoa(status)).(*expvar.Int)
	if !ok {
		return 0
	}
	return v.Value()
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return "unmatched"
}
