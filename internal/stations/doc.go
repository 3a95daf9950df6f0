// Package stations holds a static directory of known shortwave stations
// with category filtering and nearest-frequency lookup, used by the status
// API and as tuning suggestions for the CLI.
package stations
