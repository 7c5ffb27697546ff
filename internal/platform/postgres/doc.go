// Package postgres provides the PostgreSQL implementation of the credential
// store defined in internal/store, together with the embedded goose
// migrations that create its schema.
package postgres
