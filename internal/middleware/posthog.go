package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/txn_reconciliation_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// PosthogMiddleware reports successful admin write actions, one event per route.
// Reads are not tracked. It must run after AuthMiddleware.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !posthogClient.IsInitialized() || c.Request.Method == http.MethodGet {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		actor, ok := GetActorFromContext(c)
		if !ok {
			return
		}
		event := adminEventName(c.FullPath())
		if event == "" {
			return
		}

		props := map[string]any{
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		if id := c.Param("id"); id != "" {
			props["transaction_id"] = id
		}
		posthogClient.Enqueue(actor.ID, event, props)
	}
}

// adminEventName turns "/api/v1/admin/transactions/:id/approve" into "admin_transactions_approve".
func adminEventName(route string) string {
	_, rest, found := strings.Cut(route, "/api/v1/")
	if !found || rest == "" {
		return ""
	}
	var parts []string
	for _, seg := range strings.Split(rest, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") {
			continue
		}
		parts = append(parts, strings.ReplaceAll(seg, "-", "_"))
	}
	return strings.Join(parts, "_")
}
