// Package types defines the table schemas, entity types, configuration, and
// standard errors shared by the daystore storage layer and its consumers.
package types
