package access_test

import (
	"testing"

	"github.com/WalesndWebs/project-prodigyloan/internal/access"
	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/identity"
	"github.com/WalesndWebs/project-prodigyloan/internal/session"
)

func authed(p *domain.Profile) session.State {
	return session.Resolved(&identity.Identity{ID: p.ID, Email: p.Email}, p)
}

func admin(dept domain.Department) *domain.Profile {
	return &domain.Profile{ID: "adm", Email: "adm@loanapp.com", Role: domain.RoleAdmin, Department: dept}
}

func TestLoadingIsPending(t *testing.T) {
	d := access.Evaluate(session.State{Readiness: session.Loading},
		access.Requirement{Roles: []domain.Role{domain.RoleAdmin}})
	if d.Kind != access.Pending {
		t.Fatalf("want pending, got %+v", d)
	}
}

func TestAnonymousDeniesToSignIn(t *testing.T) {
	for _, req := range []access.Requirement{
		{},
		{Roles: []domain.Role{domain.RoleBorrower}},
		{Roles: []domain.Role{domain.RoleAdmin}, Department: domain.DepartmentLoans},
	} {
		d := access.Evaluate(session.State{Readiness: session.Anonymous}, req)
		if d.Kind != access.Deny || d.Redirect != access.SignInPath {
			t.Fatalf("req %+v: want deny→%s, got %+v", req, access.SignInPath, d)
		}
	}
}

func TestIdentityWithoutProfileDeniesToSignIn(t *testing.T) {
	st := session.Resolved(&identity.Identity{ID: "u1", Email: "u@x.com"}, nil)
	d := access.Evaluate(st, access.Requirement{})
	if d.Kind != access.Deny || d.Redirect != access.SignInPath {
		t.Fatalf("got %+v", d)
	}
}

func TestAdminRoleAllows(t *testing.T) {
	d := access.Evaluate(authed(admin("")), access.Requirement{Roles: []domain.Role{domain.RoleAdmin}})
	if d.Kind != access.Allow {
		t.Fatalf("got %+v", d)
	}
}

func TestRoleMismatchDeniesToLanding(t *testing.T) {
	p := &domain.Profile{ID: "u1", Email: "u@x.com", Role: domain.RoleBorrower, IsBorrower: true}
	d := access.Evaluate(authed(p), access.Requirement{Roles: []domain.Role{domain.RoleAdmin}})
	if d.Kind != access.Deny || d.Redirect != access.LandingPath {
		t.Fatalf("got %+v", d)
	}
}

func TestCapabilityFlagOverridesLegacyRole(t *testing.T) {
	p := &domain.Profile{ID: "u1", Email: "u@x.com", Role: domain.RoleBorrower, IsBorrower: true, IsInvestor: true}
	d := access.Evaluate(authed(p), access.Requirement{Roles: []domain.Role{domain.RoleInvestor}})
	if d.Kind != access.Allow {
		t.Fatalf("flag-based investor match must allow, got %+v", d)
	}
}

func TestLegacyRoleFieldWithoutFlagStillMatches(t *testing.T) {
	p := &domain.Profile{ID: "u1", Email: "u@x.com", Role: domain.RoleInvestor}
	d := access.Evaluate(authed(p), access.Requirement{Roles: []domain.Role{domain.RoleInvestor}})
	if d.Kind != access.Allow {
		t.Fatalf("got %+v", d)
	}
}

func TestDepartmentAllIsSuperAdmin(t *testing.T) {
	for _, dept := range []domain.Department{
		domain.DepartmentUsers, domain.DepartmentLoans, domain.DepartmentRisk, "anything-else",
	} {
		d := access.Evaluate(authed(admin(domain.DepartmentAll)),
			access.Requirement{Roles: []domain.Role{domain.RoleAdmin}, Department: dept})
		if d.Kind != access.Allow {
			t.Fatalf("dept %q: got %+v", dept, d)
		}
	}
}

func TestDepartmentExactMatch(t *testing.T) {
	d := access.Evaluate(authed(admin(domain.DepartmentLoans)),
		access.Requirement{Roles: []domain.Role{domain.RoleAdmin}, Department: domain.DepartmentLoans})
	if d.Kind != access.Allow {
		t.Fatalf("got %+v", d)
	}
}

func TestDepartmentMismatchDeniesToLanding(t *testing.T) {
	d := access.Evaluate(authed(admin(domain.DepartmentLoans)),
		access.Requirement{Roles: []domain.Role{domain.RoleAdmin}, Department: domain.DepartmentUsers})
	if d.Kind != access.Deny || d.Redirect != access.LandingPath {
		t.Fatalf("got %+v", d)
	}
}

func TestEmptyDepartmentGrantsNothing(t *testing.T) {
	d := access.Evaluate(authed(admin("")),
		access.Requirement{Roles: []domain.Role{domain.RoleAdmin}, Department: domain.DepartmentDashboard})
	if d.Kind != access.Deny || d.Redirect != access.LandingPath {
		t.Fatalf("got %+v", d)
	}
}

func TestDepartmentSkippedForNonAdmins(t *testing.T) {
	// no role requirement declared, department declared: non-admin profiles
	// skip the department filter entirely
	p := &domain.Profile{ID: "u1", Email: "u@x.com", Role: domain.RoleBorrower, IsBorrower: true}
	d := access.Evaluate(authed(p), access.Requirement{Department: domain.DepartmentLoans})
	if d.Kind != access.Allow {
		t.Fatalf("got %+v", d)
	}
}

func TestNoRequirementNeedsProfileOnly(t *testing.T) {
	p := &domain.Profile{ID: "u1", Email: "u@x.com", Role: domain.RoleBorrower}
	if d := access.Evaluate(authed(p), access.Requirement{}); d.Kind != access.Allow {
		t.Fatalf("got %+v", d)
	}
}
