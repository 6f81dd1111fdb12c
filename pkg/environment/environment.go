package environment

import "strings"

// Environment represents the deployment environment. It drives ambient
// decisions such as log format and which session-cookie variant is tried
// first.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse normalizes an environment name, accepting common short forms.
// Unrecognized values default to Development so that a misconfigured local
// setup stays usable.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

// IsProduction reports whether the environment is production.
func (e Environment) IsProduction() bool { return e == Production }

// IsDevelopment reports whether the environment is development.
func (e Environment) IsDevelopment() bool { return e == Development }

// IsStaging reports whether the environment is staging.
func (e Environment) IsStaging() bool { return e == Staging }

func (e Environment) String() string { return string(e) }
