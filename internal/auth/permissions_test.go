package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		role       string
		permission string
		want       bool
	}{
		{"админ управляет ролями", RoleAdmin, "roles:manage", true},
		{"модератор модерирует", RoleModerator, "content:moderate", true},
		{"участник не модерирует", RoleMember, "content:moderate", false},
		{"модератор не банит", RoleModerator, "users:ban", false},
		{"неизвестная роль", "ghost", "content:read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasPermission(tc.role, tc.permission))
		})
	}
}
