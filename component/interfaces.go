package component

import "context"

// Component is a unit with a lifecycle managed by a Registry: the HTTP
// server, the telemetry exporters and the upload spool.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is what /healthz reports per component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Describable components get a line under "Components" in the startup
// summary.
type Describable interface {
	Describe() Description
}

// Description fills that line. An empty Name falls back to Component.Name
// and a zero Port is omitted.
type Description struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// RouteProvider lists HTTP routes for the startup summary.
type RouteProvider interface {
	Routes() []Route
}

type Route struct {
	Method  string
	Path    string
	Handler string
}
