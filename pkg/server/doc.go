// Package server implements the sink server: it accepts producer
// websocket connections, maintains a registry of live displays, applies
// Create/Replace/Patches frames in connection order, and exposes the
// current documents over HTTP.
//
// Endpoints:
//
//	GET /healthz         liveness probe
//	GET /metrics         Prometheus metrics (when enabled)
//	GET /displays        ids of live displays
//	GET /displays/{id}   current JSON document for one display
//	GET /ws              producer websocket ingest
package server
