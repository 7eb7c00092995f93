package domain

import "time"

// Role is the coarse access category stored on a profile. The legacy single
// role field and the per-capability flags below are both authoritative: a
// profile may be a borrower and an investor at the same time even though Role
// can only carry one of them.
type Role string

const (
	RoleBorrower Role = "borrower"
	RoleInvestor Role = "investor"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBorrower, RoleInvestor, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Department scopes an admin profile to one dashboard. DepartmentAll is the
// super-admin sentinel; an empty department grants access to nothing.
type Department string

const (
	DepartmentAll       Department = "all"
	DepartmentDashboard Department = "dashboard"
	DepartmentUsers     Department = "users"
	DepartmentLoans     Department = "loans"
	DepartmentBusiness  Department = "business"
	DepartmentCustomer  Department = "customer-service"
	DepartmentRisk      Department = "risk-management"
	DepartmentComply    Department = "compliance"
	DepartmentTech      Department = "technical-support"
	DepartmentInvites   Department = "invites"
)

var knownDepartments = map[Department]bool{
	DepartmentAll:       true,
	DepartmentDashboard: true,
	DepartmentUsers:     true,
	DepartmentLoans:     true,
	DepartmentBusiness:  true,
	DepartmentCustomer:  true,
	DepartmentRisk:      true,
	DepartmentComply:    true,
	DepartmentTech:      true,
	DepartmentInvites:   true,
}

// ParseDepartment validates writes; reads keep whatever string is stored so
// that pre-existing rows with unknown departments keep their old behavior.
func ParseDepartment(s string) (Department, bool) {
	d := Department(s)
	return d, knownDepartments[d]
}

// Profile extends an identity with the portal's role and capability data.
// ID equals the identity's ID (one row per identity).
type Profile struct {
	ID         string     `bson:"_id" json:"id"`
	Email      string     `bson:"email" json:"email"`
	FullName   string     `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Phone      string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Role       Role       `bson:"role" json:"role"`
	IsBorrower bool       `bson:"is_borrower" json:"is_borrower"`
	IsInvestor bool       `bson:"is_investor" json:"is_investor"`
	Department Department `bson:"department,omitempty" json:"department,omitempty"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
}

// HasRole reports whether the profile qualifies for r. Capability flags and
// the legacy role field are OR'ed for borrower/investor; admin is decided by
// the role field alone.
func (p *Profile) HasRole(r Role) bool {
	switch r {
	case RoleAdmin:
		return p.Role == RoleAdmin
	case RoleBorrower:
		return p.IsBorrower || p.Role == RoleBorrower
	case RoleInvestor:
		return p.IsInvestor || p.Role == RoleInvestor
	}
	return false
}

// InDepartment reports whether an admin profile may access dept.
func (p *Profile) InDepartment(dept Department) bool {
	return p.Department == DepartmentAll || p.Department == dept
}
