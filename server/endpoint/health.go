package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/netkit/observability"
	"github.com/kbukum/netkit/version"
)

// HealthChecker reports the health of the components behind a server.
type HealthChecker func(ctx context.Context) []observability.Health

// Health serves the aggregated health of serviceName. A down service answers 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var components []observability.Health
		if checker != nil {
			components = checker(c.Request.Context())
		}
		health := observability.Aggregate(serviceName, version.Short(), components...)

		status := http.StatusOK
		if health.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
