// Package config loads the server configuration from YAML.
//
// Values may reference environment variables as ${VAR}; a reference to an
// unset variable is an error, and $$ produces a literal dollar sign. Fields
// absent from the file keep the values returned by Default.
package config
