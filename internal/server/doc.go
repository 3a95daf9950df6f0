// Package server exposes the HTTP status API: connection state, tuning,
// ring fill, the station directory, the effective configuration and
// Prometheus metrics.
package server
