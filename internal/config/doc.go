// Package config loads runtime settings for the flight CLI.
//
// Sources are layered, later ones winning: built-in defaults, a YAML
// config file, .env files, FLIGHT_* environment variables and finally
// command-line flags that were explicitly set.
package config
