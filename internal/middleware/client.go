package middleware

import (
	"unicode/utf8"

	"cargo-broker/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ClientIDKey    = "client_id"
	ClientIDHeader = "X-Client-ID"

	// DefaultClientID is the identity assumed when the caller sends none.
	DefaultClientID = "client-001"

	maxClientIDLength = 64
)

// ClientIdentityMiddleware records which client the request acts for. The
// header is trusted as sent.
func ClientIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := utils.SanitizeString(c.GetHeader(ClientIDHeader))
		if clientID == "" {
			clientID = DefaultClientID
		}
		clientID = truncateUTF8(clientID, maxClientIDLength)

		c.Set(ClientIDKey, clientID)
		c.Next()
	}
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// GetClientID retrieves the acting client ID from the Gin context.
func GetClientID(c *gin.Context) string {
	if clientID, exists := c.Get(ClientIDKey); exists {
		if id, ok := clientID.(string); ok && id != "" {
			return id
		}
	}
	return DefaultClientID
}
