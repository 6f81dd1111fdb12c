package environment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lospapatos/tenantgate/pkg/environment"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := map[string]environment.Environment{
		"production":  environment.Production,
		"prod":        environment.Production,
		"PROD":        environment.Production,
		" staging ":   environment.Staging,
		"stage":       environment.Staging,
		"development": environment.Development,
		"dev":         environment.Development,
		"":            environment.Development,
		"whatever":    environment.Development,
	}
	for input, want := range cases {
		assert.Equal(t, want, environment.Parse(input), "input %q", input)
	}
}

func TestPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, environment.Production.IsProduction())
	assert.False(t, environment.Production.IsDevelopment())
	assert.True(t, environment.Development.IsDevelopment())
	assert.True(t, environment.Staging.IsStaging())
	assert.Equal(t, "production", environment.Production.String())
}
