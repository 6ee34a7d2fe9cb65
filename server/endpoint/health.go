package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/compapol/component"
)

// HealthChecker returns the health of registered components.
type HealthChecker func(ctx context.Context) []component.Health

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status     component.HealthStatus `json:"status"`
	Service    string                 `json:"service"`
	Time       string                 `json:"time"`
	Components []component.Health     `json:"components"`
}

var severity = map[component.HealthStatus]int{
	component.StatusHealthy:   0,
	component.StatusDegraded:  1,
	component.StatusUnhealthy: 2,
}

// Health reports the worst component status. Unhealthy answers 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{
			Status:  component.StatusHealthy,
			Service: serviceName,
			Time:    time.Now().UTC().Format(isoMillis),
		}
		if checker != nil {
			resp.Components = checker(c.Request.Context())
		}
		for _, h := range resp.Components {
			if severity[h.Status] > severity[resp.Status] {
				resp.Status = h.Status
			}
		}

		code := http.StatusOK
		if resp.Status == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}
