// Package redis wraps the go-redis client with metrics and circuit
// breaker hooks, and carries the cross-instance traffic: the
// declaration event feed and layout cache invalidation signals.
// Redis is optional: when no REDIS_URL is configured the service runs
// single-instance with local-only fan-out.
package redis
