// Package store provides the latest-score cache implementations.
// The in-memory store serves single-instance deployments; the Redis store
// enables sharing the cache across instances.
package store
