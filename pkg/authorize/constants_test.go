package authorize

import (
	"testing"
)

func TestIsValidDomain(t *testing.T) {
	tests := []struct {
		name     string
		domain   Domain
		expected bool
	}{
		// Valid domains
		{"sys domain", DomainSys, true},
		{"wildcard domain", WildcardDomain, true},
		{"valid user domain", Domain("user:550e8400-e29b-41d4-a716-446655440000"), true},

		// Invalid domains
		{"empty domain", Domain(""), false},
		{"random string", Domain("random"), false},
		{"user without uuid", Domain("user:"), false},
		{"user with invalid uuid", Domain("user:not-a-uuid"), false},
		{"unknown prefix", Domain("course:550e8400-e29b-41d4-a716-446655440000"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidDomain(tt.domain)
			if result != tt.expected {
				t.Errorf("IsValidDomain(%q) = %v, want %v", tt.domain, result, tt.expected)
			}
		})
	}
}

func TestUserDomain(t *testing.T) {
	userID := "550e8400-e29b-41d4-a716-446655440000"
	expected := Domain("user:550e8400-e29b-41d4-a716-446655440000")

	result := UserDomain(userID)
	if result != expected {
		t.Errorf("UserDomain(%q) = %q, want %q", userID, result, expected)
	}
}

func TestAccountRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"student", RoleStudent, false},
		{"PROFESSOR", RoleProfessor, false},
		{"admin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := AccountRole(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AccountRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("AccountRole(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultPoliciesUseKnownConstants(t *testing.T) {
	for _, p := range DefaultPolicies() {
		if _, ok := KnownRoles[p.Subject]; !ok {
			t.Errorf("policy %+v: unknown role", p)
		}
		if _, ok := KnownResources[p.Object]; !ok && p.Object != WildcardResource {
			t.Errorf("policy %+v: unknown resource", p)
		}
		if _, ok := KnownActions[p.Action]; !ok && p.Action != WildcardAction {
			t.Errorf("policy %+v: unknown action", p)
		}
	}
}
