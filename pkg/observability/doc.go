/*
Package observability provides lifecycle hooks for monitoring the navigator.

Metrics exposes Prometheus counters and histograms for transitions, generations and
assistant calls on its own registry; LoggingHooks mirrors the same events to a structured
logger. Both return domain.LifecycleHooks and can be combined with Merge.
*/
package observability
