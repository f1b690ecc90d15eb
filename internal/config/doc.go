// Package config defines the alert router settings and provides helpers to
// load, validate and save them in YAML format.
//
// Every component keeps its own settings struct; Config only nests them under
// one document and applies cross-component rules (for example a postgres
// backend requires a DSN). Secrets may be supplied through environment variables.
package config
