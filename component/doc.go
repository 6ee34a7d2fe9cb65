// Package component defines lifecycle-managed pieces of a service (the HTTP
// server, telemetry exporters) and the Registry that starts them in order
// and stops them in reverse.
//
// Components may also implement Describable or RouteProvider to appear in
// the startup summary.
package component
