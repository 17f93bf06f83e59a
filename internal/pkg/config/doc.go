// Package config holds the settings structs consumed by the logger, the
// persistence layer and the service entry points, each carrying validate
// tags and a Validate method.
package config
