package middleware

import (
	"net/http"
	"strings"

	"github.com/aripa/fish_stats_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// ClientIDHeader optionally identifies the dashboard instance issuing requests.
const ClientIDHeader = "X-Client-ID"

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// distinctID prefers the dashboard's client id and falls back to the caller IP.
func distinctID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(ClientIDHeader)); id != "" {
		return id
	}
	return c.ClientIP()
}

// PosthogMiddleware creates a Gin middleware handler that tracks view requests with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// "/api/stats/by-entity" -> "api_stats_by-entity"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string)
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}
		if query := c.Request.URL.Query(); len(query) > 0 {
			q := make(map[string]string, len(query))
			for k := range query {
				q[k] = query.Get(k)
			}
			props["query"] = q
		}

		posthogClient.Enqueue(distinctID(c), eventName, props)
	}
}
