// Package config provides configuration loading and validation for the
// WebSDR streaming client. It handles YAML-based configuration with struct
// validation covering the server fallback list, audio rates, connection
// policy and logging.
package config
