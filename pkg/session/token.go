package session

import (
	"github.com/lospapatos/tenantgate/pkg/jwt"
	"github.com/lospapatos/tenantgate/pkg/tenant"
)

// Token is the validated session payload carried by the auth cookie.
// It is issued by the external authentication layer; this package only
// verifies and reads it.
type Token struct {
	jwt.StandardClaims

	// Email is the authenticated user's identity.
	Email string `json:"email"`

	// TenantSlug binds the session to a tenant. Empty for sessions that
	// authenticated but have not completed tenant onboarding.
	TenantSlug string `json:"tenant_slug,omitempty"`

	// BusinessType is a cached copy of the bound tenant's business type,
	// avoiding a registry lookup on every request.
	BusinessType tenant.BusinessType `json:"business_type,omitempty"`

	// RegistrationRequired marks a session whose identity is proven but
	// whose tenant onboarding is incomplete.
	RegistrationRequired bool `json:"registration_required,omitempty"`
}

// Bound reports whether the session carries a tenant binding.
func (t *Token) Bound() bool {
	return t != nil && t.TenantSlug != ""
}

// BoundTo reports whether the session is bound to the given tenant slug.
func (t *Token) BoundTo(slug string) bool {
	return t.Bound() && t.TenantSlug == slug
}
