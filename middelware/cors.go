package middelware

import (
	"maintrack-backend/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware answers browser preflights for the configured origins
type CORSMiddleware struct {
	exact     map[string]bool
	wildcards []string
	any       bool
}

// NewCORSMiddleware indexes cfg.CORSOrigins. Entries may be "*", an exact
// origin or a "*.example.com" subdomain pattern.
func NewCORSMiddleware(cfg *models.Config) *CORSMiddleware {
	m := &CORSMiddleware{exact: make(map[string]bool)}
	for _, origin := range cfg.CORSOrigins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "*":
			m.any = true
		case strings.HasPrefix(origin, "*."):
			m.wildcards = append(m.wildcards, origin[1:])
		case origin != "":
			m.exact[origin] = true
		}
	}
	return m
}

// CORS returns a gin.HandlerFunc for handling CORS
func (m *CORSMiddleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && m.allowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
			c.Header("Access-Control-Expose-Headers", "X-Request-ID")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (m *CORSMiddleware) allowed(origin string) bool {
	if m.any || m.exact[origin] {
		return true
	}
	for _, suffix := range m.wildcards {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}
