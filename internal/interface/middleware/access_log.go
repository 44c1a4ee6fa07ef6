package middleware

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const redacted = "REDACTED"

// secretParams are query keys whose values never reach the access log.
var secretParams = map[string]bool{
	"password": true,
}

// AccessLog is gin's request logger with credential query values masked.
// GET /login carries the password in the query string.
func AccessLog(out io.Writer) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    out,
		Formatter: accessLogLine,
	})
}

func accessLogLine(p gin.LogFormatterParams) string {
	if p.Latency > time.Minute {
		p.Latency = p.Latency.Truncate(time.Second)
	}
	return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n%s",
		p.TimeStamp.Format("2006/01/02 - 15:04:05"),
		p.StatusCode,
		p.Latency,
		p.ClientIP,
		p.Method,
		redactPath(p.Path),
		p.ErrorMessage,
	)
}

// redactPath masks secret query values. A query that does not parse is
// dropped whole.
func redactPath(path string) string {
	base, raw, ok := strings.Cut(path, "?")
	if !ok {
		return path
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return base + "?" + redacted
	}
	for k, vs := range q {
		if !secretParams[strings.ToLower(k)] {
			continue
		}
		for i := range vs {
			vs[i] = redacted
		}
	}
	return base + "?" + q.Encode()
}
