package auth

import "github.com/gin-gonic/gin"

const sessionIDKey = "sessionID"

// GetSessionID returns the planning session bound to the request's token, or empty string.
func GetSessionID(c *gin.Context) string {
	if v, ok := c.Get(sessionIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
