// Package config defines the crowd alarm settings and provides helpers to
// load, validate and save them in YAML format.
//
// Secrets and the measured area can be overridden from the environment; a
// .env file in the working directory is read first when present.
package config
