// Package logger provides structured logging on top of zerolog.
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "netkit")
//	log.WithComponent("httpclient").Info("ready", logger.Fields("base_url", url))
//
// A process-wide logger is available through Init/GetGlobalLogger and the
// package-level Debug/Info/Warn/Error helpers.
package logger
