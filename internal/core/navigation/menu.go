// Package navigation computes the sidebar entries a role is allowed to see.
package navigation

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/contalink/backoffice/internal/core/domain"
)

//go:embed menu.yaml
var defaultMenu []byte

// Entry is a menu definition line. An empty Roles list means every
// authenticated role may see it.
type Entry struct {
	Label string   `yaml:"label"`
	Icon  string   `yaml:"icon"`
	Path  string   `yaml:"path"`
	Roles []string `yaml:"roles"`
}

// Menu is the ordered sidebar definition.
type Menu struct {
	Items []Entry `yaml:"items"`
}

// Item is a sidebar entry as rendered for an actor.
type Item struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Path  string `json:"path"`
}

// DefaultMenu returns the embedded menu definition.
func DefaultMenu() (Menu, error) {
	return Parse(defaultMenu)
}

// LoadMenu reads the menu from path, or returns the embedded menu when path is empty.
func LoadMenu(path string) (Menu, error) {
	if path == "" {
		return DefaultMenu()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Menu{}, fmt.Errorf("read menu: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and checks a YAML menu definition.
func Parse(raw []byte) (Menu, error) {
	var m Menu
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Menu{}, fmt.Errorf("parse menu: %w", err)
	}

	seen := make(map[string]struct{}, len(m.Items))
	for i, e := range m.Items {
		if e.Label == "" || e.Path == "" {
			return Menu{}, fmt.Errorf("menu item %d: label and path are required", i)
		}
		if _, dup := seen[e.Path]; dup {
			return Menu{}, fmt.Errorf("menu item %d: duplicate path %q", i, e.Path)
		}
		seen[e.Path] = struct{}{}
		for _, r := range e.Roles {
			if !domain.ValidRole(r) {
				return Menu{}, fmt.Errorf("menu item %d: unknown role %q", i, r)
			}
		}
	}
	return m, nil
}

// Authorize returns, in menu order, the entries role may see.
func Authorize(role string, menu Menu) []Item {
	items := make([]Item, 0, len(menu.Items))
	for _, e := range menu.Items {
		if !visible(role, e) {
			continue
		}
		items = append(items, Item{Label: e.Label, Icon: e.Icon, Path: e.Path})
	}
	return items
}

func visible(role string, e Entry) bool {
	if role == domain.RoleAdmin || len(e.Roles) == 0 {
		return true
	}
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}
