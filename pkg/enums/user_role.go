package enums

import "fmt"

// UserRole is the account-level permissions role.
type UserRole string

const (
	UserRoleClient UserRole = "client"
	UserRoleCoach  UserRole = "coach"
)

var validUserRoles = []UserRole{
	UserRoleClient,
	UserRoleCoach,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
