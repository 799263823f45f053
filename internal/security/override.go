// Package security holds the pieces shared by every security context.
package security

// Override implements the administrator rule: a context built for an
// administrator token grants every decision regardless of other roles.
//
// The zero value is a non-administrator override.
type Override struct {
	administrator bool
}

// NewOverride creates an override for a token that does or does not hold the administrator role.
func NewOverride(administrator bool) Override {
	return Override{administrator: administrator}
}

// IsAdministrator reports whether the acting token is an administrator.
func (o Override) IsAdministrator() bool {
	return o.administrator
}

// Allow returns true for administrators, otherwise the supplied decision.
func (o Override) Allow(granted bool) bool {
	return o.administrator || granted
}

// AllowFunc is like Allow but evaluates the decision only for non-administrators.
func (o Override) AllowFunc(decide func() bool) bool {
	if o.administrator {
		return true
	}
	return decide != nil && decide()
}
