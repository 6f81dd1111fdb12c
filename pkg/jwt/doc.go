// Package jwt implements the HS256 sign/verify primitive used for session
// tokens. It keeps the surface to exactly what session verification needs:
// Generate for test fixtures and token issuance, Parse for validation with
// constant-time signature comparison and temporal claim checks.
package jwt
