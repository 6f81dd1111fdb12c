// Package session validates the signed session cookie on incoming requests.
//
// Different deployment environments transmit the token under different
// cookie names and security flags: hardened production uses an HTTPS-only
// "__Secure-" cookie, local development a plain one. The authenticator
// walks an ordered strategy list of cookie candidates, environment-first,
// and returns the first token that passes cryptographic verification. A
// mismatch between detected and actual environment therefore costs one
// extra cookie read instead of a failed login.
//
// The package is strictly read-only: issuing, refreshing, and clearing
// session cookies belongs to the external authentication layer.
package session
