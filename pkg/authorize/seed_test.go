package authorize

import (
	"context"
	"errors"
	"testing"
)

func TestSeedDefaultPolicies(t *testing.T) {
	auth, err := NewAuthorization(createTestEnforcer(t))
	if err != nil {
		t.Fatalf("NewAuthorization: %v", err)
	}
	ctx := context.Background()

	if err := SeedDefaultPolicies(ctx, auth); err != nil {
		t.Fatalf("SeedDefaultPolicies: %v", err)
	}
	// Second run adds nothing and does not fail.
	if err := SeedDefaultPolicies(ctx, auth); err != nil {
		t.Fatalf("SeedDefaultPolicies (again): %v", err)
	}

	const student, professor = "student-1", "professor-1"
	if err := AssignUserRole(ctx, auth, student, "student"); err != nil {
		t.Fatalf("assign student: %v", err)
	}
	if err := AssignUserRole(ctx, auth, professor, "Professor"); err != nil {
		t.Fatalf("assign professor: %v", err)
	}

	tests := []struct {
		subject  string
		resource Resource
		action   Action
		want     bool
	}{
		{student, ResourceAvailability, ActionList, true},
		{student, ResourceAvailability, ActionRead, false},
		{student, ResourceAvailability, ActionCreate, false},
		{student, ResourceAvailability, ActionDelete, false},
		{student, ResourceAppointment, ActionCreate, true},
		{student, ResourceAppointment, ActionUpdate, true},
		{student, ResourceAppointment, ActionClose, false},
		{student, ResourceNotification, ActionRead, true},
		{professor, ResourceAvailability, ActionRead, true},
		{professor, ResourceAvailability, ActionCreate, true},
		{professor, ResourceAvailability, ActionDelete, true},
		{professor, ResourceAppointment, ActionCreate, false},
		{professor, ResourceAppointment, ActionClose, true},
		{professor, ResourceUser, ActionRead, true},
		{"nobody", ResourceAvailability, ActionList, false},
	}

	for _, tt := range tests {
		t.Run(tt.subject+"/"+string(tt.resource)+"/"+string(tt.action), func(t *testing.T) {
			got, err := auth.Enforce(ctx, GroupSubject(tt.subject), DomainSys, tt.resource, tt.action)
			if err != nil {
				t.Fatalf("Enforce: %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignUserRole(t *testing.T) {
	auth, _ := NewAuthorization(createTestEnforcer(t))
	ctx := context.Background()

	if err := AssignUserRole(ctx, auth, "u-1", "admin"); !errors.Is(err, ErrInvalidArgs) {
		t.Errorf("unknown account role: got %v, want ErrInvalidArgs", err)
	}

	if err := AssignUserRole(ctx, auth, "u-1", "student"); err != nil {
		t.Fatalf("AssignUserRole: %v", err)
	}
	roles, err := GetSystemRoles(ctx, auth, "u-1")
	if err != nil {
		t.Fatalf("GetSystemRoles: %v", err)
	}
	if len(roles) != 1 || roles[0] != RoleStudent {
		t.Errorf("roles = %v, want [%s]", roles, RoleStudent)
	}
}

func TestAssignPlatformAdmin(t *testing.T) {
	auth, _ := NewAuthorization(createTestEnforcer(t))
	ctx := context.Background()

	if err := AssignPlatformAdmin(ctx, auth, "ops-1"); err != nil {
		t.Fatalf("AssignPlatformAdmin: %v", err)
	}
	ok, err := auth.Enforce(ctx, "ops-1", DomainSys, ResourceSystem, ActionManage)
	if err != nil || !ok {
		t.Errorf("platform admin Enforce() = %v, %v; want true, nil", ok, err)
	}
}
