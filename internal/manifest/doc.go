// Package manifest validates the package.json of a generated project against
// an embedded JSON Schema, reporting every violation with its location.
package manifest
