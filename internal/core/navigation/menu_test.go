package navigation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contalink/backoffice/internal/core/domain"
)

func paths(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}

func TestAuthorize_ClientNeverSeesAdminOnly(t *testing.T) {
	menu, err := DefaultMenu()
	require.NoError(t, err)

	items := Authorize(domain.RoleClient, menu)
	for _, e := range menu.Items {
		if len(e.Roles) == 1 && e.Roles[0] == domain.RoleAdmin {
			assert.NotContains(t, paths(items), e.Path)
		}
	}
	assert.Equal(t, []string{"/dashboard", "/client/payments", "/client/orders", "/services"}, paths(items))
}

func TestAuthorize_AdminSeesEverything(t *testing.T) {
	menu, err := DefaultMenu()
	require.NoError(t, err)

	items := Authorize(domain.RoleAdmin, menu)
	require.Len(t, items, len(menu.Items))
	for i, e := range menu.Items {
		assert.Equal(t, e.Path, items[i].Path)
		assert.Equal(t, e.Label, items[i].Label)
		assert.Equal(t, e.Icon, items[i].Icon)
	}
}

func TestAuthorize_StaffRoles(t *testing.T) {
	menu, err := DefaultMenu()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"/dashboard", "/clients", "/payments", "/services"},
		paths(Authorize(domain.RoleAccountant, menu)))
	assert.Equal(t,
		[]string{"/dashboard", "/clients", "/payments", "/inventory", "/orders", "/services"},
		paths(Authorize(domain.RoleSeller, menu)))
}

func TestAuthorize_UnknownRoleOnlySeesOpenEntries(t *testing.T) {
	menu := Menu{Items: []Entry{
		{Label: "Inicio", Path: "/"},
		{Label: "Usuarios", Path: "/admin/users", Roles: []string{domain.RoleAdmin}},
	}}

	assert.Equal(t, []string{"/"}, paths(Authorize("guest", menu)))
	assert.Equal(t, []string{"/"}, paths(Authorize("", menu)))
}

func TestAuthorize_Deterministic(t *testing.T) {
	menu, err := DefaultMenu()
	require.NoError(t, err)

	assert.Equal(t, Authorize(domain.RoleSeller, menu), Authorize(domain.RoleSeller, menu))
}

func TestParse_RejectsInvalidDefinitions(t *testing.T) {
	cases := map[string]string{
		"unknown role": "items:\n  - {label: A, path: /a, roles: [root]}\n",
		"missing path": "items:\n  - {label: A}\n",
		"duplicate":    "items:\n  - {label: A, path: /a}\n  - {label: B, path: /a}\n",
		"invalid yaml": "items: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadMenu_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - {label: Solo, icon: star, path: /solo, roles: [seller]}\n"), 0o600))

	menu, err := LoadMenu(path)
	require.NoError(t, err)
	assert.Equal(t, []Item{{Label: "Solo", Icon: "star", Path: "/solo"}}, Authorize(domain.RoleSeller, menu))
	assert.Empty(t, Authorize(domain.RoleClient, menu))
}

func TestLoadMenu_MissingFile(t *testing.T) {
	_, err := LoadMenu(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
