// Package environment provides deployment-environment detection shared by
// the logger and the session authenticator.
package environment
