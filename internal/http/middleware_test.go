package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/WalesndWebs/project-prodigyloan/internal/access"
	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/identity"
	"github.com/WalesndWebs/project-prodigyloan/internal/session"
)

// guardRouter mounts a route behind Guard with the session state injected
// directly, standing in for Authenticate.
func guardRouter(st session.State, req access.Requirement) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{}
	r := gin.New()
	r.GET("/probe",
		func(c *gin.Context) { c.Set(sessionKey, st) },
		h.Guard(req),
		func(c *gin.Context) { c.Status(200) },
	)
	return r
}

func do(t *testing.T, r *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/probe", nil))
	return w
}

func TestGuardAnonymousIs401(t *testing.T) {
	r := guardRouter(session.State{Readiness: session.Anonymous},
		access.Requirement{Roles: []domain.Role{domain.RoleAdmin}})
	w := do(t, r)
	if w.Code != 401 {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}

func TestGuardIdentityWithoutProfileIs401(t *testing.T) {
	st := session.Resolved(&identity.Identity{ID: "u1", Email: "u@x.com"}, nil)
	w := do(t, guardRouter(st, access.Requirement{}))
	if w.Code != 401 {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}

func TestGuardWrongDepartmentIs403(t *testing.T) {
	p := &domain.Profile{ID: "a", Email: "a@loanapp.com", Role: domain.RoleAdmin, Department: domain.DepartmentLoans}
	st := session.Resolved(&identity.Identity{ID: "a", Email: p.Email}, p)
	w := do(t, guardRouter(st, access.Requirement{
		Roles: []domain.Role{domain.RoleAdmin}, Department: domain.DepartmentUsers,
	}))
	if w.Code != 403 {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}

func TestGuardMatchingDepartmentPasses(t *testing.T) {
	p := &domain.Profile{ID: "a", Email: "a@loanapp.com", Role: domain.RoleAdmin, Department: domain.DepartmentAll}
	st := session.Resolved(&identity.Identity{ID: "a", Email: p.Email}, p)
	w := do(t, guardRouter(st, access.Requirement{
		Roles: []domain.Role{domain.RoleAdmin}, Department: domain.DepartmentComply,
	}))
	if w.Code != 200 {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}

func TestGuardDualRoleProfilePasses(t *testing.T) {
	p := &domain.Profile{ID: "u", Email: "u@x.com", Role: domain.RoleBorrower, IsBorrower: true, IsInvestor: true}
	st := session.Resolved(&identity.Identity{ID: "u", Email: p.Email}, p)
	w := do(t, guardRouter(st, access.Requirement{Roles: []domain.Role{domain.RoleInvestor}}))
	if w.Code != 200 {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
}
