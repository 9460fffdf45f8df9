/*
Package observability provides tools for monitoring the ClickPath engine.

Metrics turns lifecycle hooks into Prometheus counters, and Stream fans the
same events out to live subscribers such as SSE and WebSocket clients.
*/
package observability
