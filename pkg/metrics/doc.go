/*
Package metrics provides Prometheus metrics collection and exposition for
the chain flow engine.

The metrics package defines and registers engine metrics using the
Prometheus client library: dispatch cycle counts and duration, per-chain
queue depth, element return-code counts, watchdog pat/timeout counts, and
exception handler trip counts. Metrics are exposed via an HTTP handler for
scraping by a Prometheus server.

# Metric Categories

Engine:
  - chainflow_dispatch_cycles_total: system event dispatch cycles completed
  - chainflow_dispatch_cycle_duration_seconds: time per dispatch cycle
  - chainflow_chains_defined_total / chainflow_active_chains_total

Queues:
  - chainflow_system_queue_depth
  - chainflow_chain_queue_depth{chain}
  - chainflow_queue_events_dropped_total{queue}

Elements:
  - chainflow_element_return_codes_total{chain,element,return_code}
  - chainflow_element_process_duration_seconds{chain,element}

Watchdog and exception operators:
  - chainflow_watchdog_pats_total{chain,element}
  - chainflow_watchdog_timeouts_total{chain,element}
  - chainflow_exception_trips_total{chain,element}

# Usage

Collector samples Engine.SystemInfo/ChainInfo on a timer for the gauges
above; the engine's dispatch loop and the operators package update the
counters and histograms inline as they run.

	coll := metrics.NewCollector(eng)
	coll.Start()
	defer coll.Stop()

	http.Handle("/metrics", metrics.Handler())

Timer is a small helper for timing an operation and recording it to a
histogram (with or without labels):

	t := metrics.NewTimer()
	// ... do work ...
	t.ObserveDuration(metrics.DispatchCycleDuration)

# Health

See health.go for the separate HealthChecker/HealthStatus types used by
the CLI's /health endpoint, independent of the Prometheus registry.
*/
package metrics
