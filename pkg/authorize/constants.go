package authorize

import (
	"fmt"
	"regexp"
	"strings"
)

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Power actions
	ActionManage Action = "manage" // granted as its own action, does not imply CRUD

	// Lifecycle actions
	ActionClose Action = "close"
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionManage: {}, ActionClose: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	// Identity
	ResourceUser        Resource = "user"
	ResourceAuthSession Resource = "auth_session"

	// Scheduling
	ResourceAvailability Resource = "availability"
	ResourceAppointment  Resource = "appointment"

	// Communication
	ResourceNotification Resource = "notification"

	// Platform
	ResourceSystem Resource = "system"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser: {}, ResourceAuthSession: {},
	ResourceAvailability: {}, ResourceAppointment: {},
	ResourceNotification: {},
	ResourceSystem:       {},
}

// ----------------------------
// Roles
// ----------------------------
//
// These are the "policy subjects" we assign to users via grouping policies.

const (
	WildcardRole Role = "*"

	// Platform role (domain = sys), bypasses every check.
	RolePlatformAdmin Role = "role:platform:admin"

	// Account roles (domain = sys)
	RoleStudent   Role = "role:student"
	RoleProfessor Role = "role:professor"

	// Private user scope (domain = user:<uuid>)
	RoleUserSelf Role = "role:user:self"
)

var KnownRoles = map[Role]struct{}{
	RolePlatformAdmin: {},
	RoleStudent:       {},
	RoleProfessor:     {},
	RoleUserSelf:      {},
}

// accountRoles maps the users.role column to Casbin roles.
var accountRoles = map[string]Role{
	"student":   RoleStudent,
	"professor": RoleProfessor,
}

// AccountRole returns the Casbin role for a users.role value.
func AccountRole(role string) (Role, error) {
	r, ok := accountRoles[strings.ToLower(role)]
	if !ok {
		return "", fmt.Errorf("%w: unknown account role: %q", ErrInvalidArgs, role)
	}
	return r, nil
}

// ----------------------------
// Domains
// ----------------------------

const (
	DomainSys Domain = "sys"
)

const (
	DomainPrefixUser Domain = "user:"
)

const (
	WildcardDomain Domain = "*"
)

var (
	reUUID = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)
)

func UserDomain(userID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixUser, userID))
}

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	if d == DomainSys || d == WildcardDomain {
		return true
	}

	s := string(d)
	if rest, ok := strings.CutPrefix(s, string(DomainPrefixUser)); ok {
		return reUUID.MatchString(rest)
	}
	return false
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a concrete principal id (user_id or service_id).
type GroupSubject string

// Grouping rows: g, user_id, role, domain
type GroupingPolicy struct {
	Subject GroupSubject
	Role    Role
	Domain  Domain
}

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
