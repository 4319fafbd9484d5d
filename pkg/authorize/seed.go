package authorize

import (
	"context"
	"log/slog"
)

// DefaultPolicies is the baseline permission set, all in the sys domain.
func DefaultPolicies() []PermissionPolicy {
	return []PermissionPolicy{
		// Platform admin: god mode
		{RolePlatformAdmin, DomainSys, WildcardResource, WildcardAction, EffectAllow},

		// Students browse slots, book and cancel their own appointments.
		{RoleStudent, DomainSys, ResourceAvailability, ActionList, EffectAllow},
		{RoleStudent, DomainSys, ResourceAppointment, ActionCreate, EffectAllow},
		{RoleStudent, DomainSys, ResourceAppointment, ActionList, EffectAllow},
		{RoleStudent, DomainSys, ResourceAppointment, ActionUpdate, EffectAllow},
		{RoleStudent, DomainSys, ResourceNotification, ActionRead, EffectAllow},
		{RoleStudent, DomainSys, ResourceNotification, ActionUpdate, EffectAllow},
		{RoleStudent, DomainSys, ResourceUser, ActionRead, EffectAllow},

		// Professors publish slots and manage appointments booked on them.
		{RoleProfessor, DomainSys, ResourceAvailability, ActionList, EffectAllow},
		{RoleProfessor, DomainSys, ResourceAvailability, ActionRead, EffectAllow},
		{RoleProfessor, DomainSys, ResourceAvailability, ActionCreate, EffectAllow},
		{RoleProfessor, DomainSys, ResourceAvailability, ActionDelete, EffectAllow},
		{RoleProfessor, DomainSys, ResourceAppointment, ActionList, EffectAllow},
		{RoleProfessor, DomainSys, ResourceAppointment, ActionUpdate, EffectAllow},
		{RoleProfessor, DomainSys, ResourceAppointment, ActionClose, EffectAllow},
		{RoleProfessor, DomainSys, ResourceNotification, ActionRead, EffectAllow},
		{RoleProfessor, DomainSys, ResourceNotification, ActionUpdate, EffectAllow},
		{RoleProfessor, DomainSys, ResourceUser, ActionRead, EffectAllow},

		// Professors never book.
		{RoleProfessor, DomainSys, ResourceAppointment, ActionCreate, EffectDeny},
	}
}

// SeedDefaultPolicies sets up the baseline RBAC policies for the system.
// It is idempotent: existing rows are left untouched.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	policies := DefaultPolicies()
	added := 0
	for _, p := range policies {
		ok, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if ok {
			added++
			logger.Debug("added policy", "role", p.Subject, "domain", p.Domain, "resource", p.Object, "action", p.Action)
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(policies), "added", added)
	return nil
}

// AssignUserRole grants the account role (student or professor) in the sys
// domain. Call this when creating a new user.
func AssignUserRole(ctx context.Context, auth IAuthorization, userID, accountRole string) error {
	role, err := AccountRole(accountRole)
	if err != nil {
		return err
	}
	_, err = auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), role, DomainSys)
	return err
}

// AssignPlatformAdmin grants the bypass role. Assign manually and carefully.
func AssignPlatformAdmin(ctx context.Context, auth IAuthorization, userID string) error {
	_, err := auth.AddRoleForUserInDomain(ctx, GroupSubject(userID), RolePlatformAdmin, DomainSys)
	return err
}

// GetSystemRoles returns all roles a user has in the sys domain.
func GetSystemRoles(ctx context.Context, auth IAuthorization, userID string) ([]Role, error) {
	return auth.GetRolesForUserInDomain(ctx, GroupSubject(userID), DomainSys)
}
