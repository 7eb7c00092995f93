// Package access decides whether a session may reach a protected
// destination, given the roles the destination accepts and, for admin
// destinations, the department it belongs to.
package access

import (
	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/session"
)

// Redirect targets carried on deny decisions.
const (
	SignInPath  = "/login"
	LandingPath = "/"
)

type Kind int

const (
	// Pending: resolution still in flight; show a waiting indicator, no
	// redirect yet.
	Pending Kind = iota
	Allow
	Deny
)

// Decision is the evaluator's verdict. Redirect is set only on Deny.
type Decision struct {
	Kind     Kind
	Redirect string
}

// Requirement declares what a destination needs: zero or more acceptable
// roles, and optionally the admin department it belongs to. An empty
// Requirement only demands an authenticated session with a profile.
type Requirement struct {
	Roles      []domain.Role
	Department domain.Department
}

// Evaluate runs the decision algorithm in order. It never mutates the
// session; the only outputs are the verdict and the redirect target.
func Evaluate(st session.State, req Requirement) Decision {
	if st.Readiness == session.Loading {
		return Decision{Kind: Pending}
	}

	// An identity without a profile is not fully authenticated: role and
	// department live on the profile only.
	if st.Identity == nil || st.Profile == nil {
		return Decision{Kind: Deny, Redirect: SignInPath}
	}

	if len(req.Roles) > 0 {
		ok := false
		for _, r := range req.Roles {
			if st.Profile.HasRole(r) {
				ok = true
				break
			}
		}
		if !ok {
			return Decision{Kind: Deny, Redirect: LandingPath}
		}
	}

	// Department gating applies to admin profiles only; a role mismatch for
	// non-admins was already denied above when roles were declared.
	if req.Department != "" && st.Profile.Role == domain.RoleAdmin {
		if !st.Profile.InDepartment(req.Department) {
			return Decision{Kind: Deny, Redirect: LandingPath}
		}
	}

	return Decision{Kind: Allow}
}
