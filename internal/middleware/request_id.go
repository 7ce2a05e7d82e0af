package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	contextReqID    = "request_id"
)

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextReqID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger returns a log entry tagged with the request id and route.
func Logger(c *gin.Context) *logrus.Entry {
	fields := logrus.Fields{"path": c.FullPath()}
	if id := c.GetString(contextReqID); id != "" {
		fields["request_id"] = id
	}
	return logrus.WithFields(fields)
}
