// Package bootstrap runs a service through its lifecycle: validated config,
// logger setup, component start in registration order, configure callbacks,
// a startup summary, then graceful shutdown on SIGINT or SIGTERM.
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*app.Config]) error {
//	    return a.RegisterComponent(httpServer)
//	})
//	err = app.Run(ctx)
package bootstrap
