// Package logger provides structured logging on top of zerolog.
//
// A process-wide logger is configured once with Init and then reached through
// the package-level helpers or component-scoped loggers:
//
//	logger.Init(cfg.Logging, "compapol")
//	log := logger.GetGlobalLogger().WithComponent("dictation")
//	log.Info("audio received", logger.Fields(logger.FieldAudioBytes, n))
//
// Request-scoped loggers pick up the request ID placed on the context by the
// HTTP middleware:
//
//	logger.WithContext(ctx).Warn("upstream rejected request")
package logger
