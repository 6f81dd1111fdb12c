// Package pg provides PostgreSQL plumbing on the pgx/v5 driver: pooled
// connection setup with startup retry, goose-based embedded migrations,
// and a readiness probe. The registry's dynamic tenant store runs on the
// pool this package opens.
package pg
