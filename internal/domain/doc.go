// Package domain holds the core types and repository contracts of the
// shelf declaration service. It has no dependencies on transport,
// storage, or caching layers.
package domain
