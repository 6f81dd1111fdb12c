// Package redis provides the Redis connection plumbing backing the shared
// tenant cache: client setup with startup retry and a readiness probe.
package redis
