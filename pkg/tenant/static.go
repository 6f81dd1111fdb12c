package tenant

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// staticFile is the on-disk shape of the allow-list: a list of tenant
// entries keyed by slug.
type staticFile struct {
	Tenants []Tenant `yaml:"tenants"`
}

// LoadStaticFile reads the static tenant allow-list from a YAML file and
// returns it as a slug-keyed map ready for NewRegistry. Entries with
// invalid slugs or business types are rejected so that a configuration
// typo fails at startup, not at request time.
func LoadStaticFile(path string) (map[string]Tenant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read static tenants file: %w", err)
	}
	return ParseStatic(data)
}

// ParseStatic parses the YAML allow-list content.
func ParseStatic(data []byte) (map[string]Tenant, error) {
	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse static tenants: %w", err)
	}

	static := make(map[string]Tenant, len(f.Tenants))
	for _, t := range f.Tenants {
		if !ValidSlug(t.Slug) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, t.Slug)
		}
		if !t.BusinessType.Valid() {
			return nil, fmt.Errorf("invalid business type %q for tenant %q", t.BusinessType, t.Slug)
		}
		if _, dup := static[t.Slug]; dup {
			return nil, fmt.Errorf("duplicate tenant slug %q", t.Slug)
		}
		t.Active = true // allow-list entries are active by definition
		static[t.Slug] = t
	}
	return static, nil
}
