/*
Package observability turns engine lifecycle hooks into Prometheus metrics and
structured log lines.

Hooks from several sources are merged with CombineHooks and handed to the
calculator through abacus.WithLifecycleHooks.
*/
package observability
