// Package database provides PostgreSQL connectivity, embedded schema
// migrations, and the repository implementations backing the domain
// contracts.
package database
