// Package observability provides OpenTelemetry tracing and metrics setup and
// recorders for httpclient.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.NewExportConfig("netkit"))
//	defer tp.Shutdown(ctx)
//
// Every httpclient call opens an "http.request" span on the global tracer.
//
// Client metrics, OpenTelemetry:
//
//	mp, err := observability.InitMeter(ctx, observability.NewExportConfig("netkit"))
//	defer mp.Shutdown(ctx)
//	rec, err := observability.NewClientRecorder(mp.Meter("netkit"), "game-api")
//	client, err := httpclient.New(cfg, httpclient.WithRecorder(rec))
//
// Client metrics, Prometheus:
//
//	rec, err := observability.NewPromRecorder("netkit")
//	http.Handle("/metrics", promhttp.HandlerFor(rec.Registry(), promhttp.HandlerOpts{}))
//
// Health:
//
//	health := observability.Aggregate("netkit-mock", version.Short(), api.Health(ctx))
package observability
