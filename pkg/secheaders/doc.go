// Package secheaders appends a fixed, non-tenant-specific set of security
// headers (HSTS, frame options, content-type options, XSS protection,
// referrer policy, CSP, permissions policy) to every routed response.
package secheaders
