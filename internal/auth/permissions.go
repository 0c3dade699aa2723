package auth

// RBAC роли и разрешения
const (
	RoleAdmin     = "admin"
	RoleMember    = "member"
	RoleModerator = "moderator"
)

// Permissions список разрешений
var Permissions = map[string][]string{
	RoleAdmin: {
		"users:read",
		"users:write",
		"users:ban",
		"roles:manage",
		"content:read",
		"content:write",
		"content:moderate",
		"content:delete",
		"system:admin",
	},
	RoleModerator: {
		"users:read",
		"content:read",
		"content:write",
		"content:moderate",
		"content:delete",
	},
	RoleMember: {
		"users:read:self",
		"users:write:self",
		"content:read",
		"content:write:self",
		"content:delete:self",
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role, permission string) bool {
	permissions, exists := Permissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
