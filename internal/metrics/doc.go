// Package metrics provides build observability for sitegen.
//
// Components receive a Recorder and default to NoopRecorder, so instrumentation
// never needs nil checks:
//
//	recorder := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.MetricsFile != "" {
//	    reg := prometheus.NewRegistry()
//	    recorder = metrics.NewPrometheusRecorder(reg)
//	    defer metrics.WriteTextfile(cfg.MetricsFile, reg)
//	}
//
// A one-shot build has no scrape endpoint; WriteTextfile emits the registry in the
// text exposition format for the node_exporter textfile collector instead.
package metrics
