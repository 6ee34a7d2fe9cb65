package server

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/compapol/component"
)

const componentName = "http"

var (
	_ component.Component     = (*ServerComponent)(nil)
	_ component.Describable   = (*ServerComponent)(nil)
	_ component.RouteProvider = (*ServerComponent)(nil)
)

// systemPaths are registered by RegisterDefaultEndpoints and listed after
// the API routes.
var systemPaths = map[string]bool{
	"/":        true,
	"/healthz": true,
	"/health":  true,
	"/info":    true,
}

// ServerComponent runs a Server under the component registry.
type ServerComponent struct {
	server *Server
}

// NewComponent wraps s.
func NewComponent(s *Server) *ServerComponent {
	return &ServerComponent{server: s}
}

func (sc *ServerComponent) Name() string { return componentName }

func (sc *ServerComponent) Start(ctx context.Context) error { return sc.server.Start(ctx) }

func (sc *ServerComponent) Stop(ctx context.Context) error { return sc.server.Stop(ctx) }

func (sc *ServerComponent) Health(context.Context) component.Health {
	if sc.server.Running() {
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
	return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: "not listening"}
}

func (sc *ServerComponent) Describe() component.Description {
	cfg := sc.server.config
	host := cfg.Host
	if host == "" {
		host = "0.0.0.0"
	}
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s h2c, body ≤ %s", host, cfg.MaxBodySize),
		Port:    cfg.Port,
	}
}

// Routes lists the engine routes for the startup summary: API routes
// first, then the health endpoints, each group by path and method.
func (sc *ServerComponent) Routes() []component.Route {
	ginRoutes := sc.server.engine.Routes()
	slices.SortStableFunc(ginRoutes, func(a, b gin.RouteInfo) int {
		return cmp.Or(
			cmp.Compare(b2i(systemPaths[a.Path]), b2i(systemPaths[b.Path])),
			strings.Compare(a.Path, b.Path),
			cmp.Compare(methodOrder(a.Method), methodOrder(b.Method)),
		)
	})

	routes := make([]component.Route, len(ginRoutes))
	for i, r := range ginRoutes {
		handler := formatHandlerName(r.Handler)
		if systemPaths[r.Path] {
			handler += " ⚙️"
		}
		routes[i] = component.Route{Method: r.Method, Path: r.Path, Handler: handler}
	}
	return routes
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatHandlerName shortens Gin's handler names:
// ".../internal/api.(*Handlers).Transcribe-fm" becomes "Handlers.Transcribe"
// and ".../server/endpoint.Liveness.func1" becomes "liveness".
func formatHandlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	if len(parts) > 1 && strings.HasPrefix(parts[len(parts)-1], "func") {
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}
	if len(parts) > 1 && parts[0] == strings.ToLower(parts[0]) {
		return strings.Join(parts[1:], ".")
	}
	return name
}

var methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// methodOrder puts unknown methods last.
func methodOrder(method string) int {
	if i := slices.Index(methods, method); i >= 0 {
		return i
	}
	return len(methods)
}
