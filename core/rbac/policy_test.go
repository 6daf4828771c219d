package rbac

import "testing"

func TestPolicyRolePermissions(t *testing.T) {
	policy, err := NewPolicy()
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	cases := []struct {
		role string
		perm Permission
		want bool
	}{
		{RoleCitizen, PermReportsCreate, true},
		{RoleCitizen, PermReportsViewOwn, true},
		{RoleCitizen, PermReportsMedia, true},
		{RoleCitizen, PermReportsTransition, false},
		{RoleCitizen, PermReportsViewAll, false},
		{RoleCitizen, PermReportsDelete, false},
		{RoleCitizen, PermReportsStats, false},
		{RoleAdmin, PermReportsTransition, true},
		{RoleAdmin, PermReportsViewAll, true},
		{RoleAdmin, PermReportsDelete, true},
		{RoleAdmin, PermReportsStats, true},
		// admin inherits citizen permissions
		{RoleAdmin, PermReportsCreate, true},
		{RoleAdmin, PermReportsViewOwn, true},
		{"guest", PermReportsCreate, false},
		{"", PermReportsViewOwn, false},
	}
	for _, tc := range cases {
		if got := policy.Allowed(tc.role, tc.perm); got != tc.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleCitizen) || !ValidRole(RoleAdmin) {
		t.Fatalf("built-in roles must be valid")
	}
	if ValidRole("superuser") || ValidRole("") {
		t.Fatalf("unknown roles must be invalid")
	}
}
