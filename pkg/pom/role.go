package pom

import "fmt"

// Role identifies which collection of a descriptor a dependency belongs to.
type Role int

const (
	Dependencies Role = iota
	DependencyManagement
	Extensions
	Plugins
	PluginDependencies
	PluginManagement
	PluginManagementDependencies
	ReportingPlugins
	ProfileDependencies
	ProfilePlugins
	ProfileDependencyManagement
	ProfilePluginDependencies
	ProfilePluginManagement
	ReportingPluginDependencies

	roleCount
)

var roleNames = [roleCount]string{
	Dependencies:                 "dependencies",
	DependencyManagement:         "dependency-management",
	Extensions:                   "extensions",
	Plugins:                      "plugins",
	PluginDependencies:           "plugin-dependencies",
	PluginManagement:             "plugin-management",
	PluginManagementDependencies: "plugin-management-dependencies",
	ReportingPlugins:             "reporting-plugins",
	ProfileDependencies:          "profile-dependencies",
	ProfilePlugins:               "profile-plugins",
	ProfileDependencyManagement:  "profile-dependency-management",
	ProfilePluginDependencies:    "profile-plugin-dependencies",
	ProfilePluginManagement:      "profile-plugin-management",
	ReportingPluginDependencies:  "reporting-plugin-dependencies",
}

// Roles returns every role in declaration order.
func Roles() []Role {
	roles := make([]Role, roleCount)
	for i := range roles {
		roles[i] = Role(i)
	}
	return roles
}

// ParseRole is the inverse of Role.String.
func ParseRole(name string) (Role, error) {
	for i, n := range roleNames {
		if n == name {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("unknown dependency role %q", name)
}

func (r Role) String() string {
	if r < 0 || r >= roleCount {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

// IsPlugin reports whether entries of this role are build plugins.
func (r Role) IsPlugin() bool {
	switch r {
	case Plugins, PluginManagement, ReportingPlugins, ProfilePlugins, ProfilePluginManagement:
		return true
	}
	return false
}

// Managed reports whether entries of this role may omit their version and are
// candidates for repository-backed version fill-in.
func (r Role) Managed() bool {
	return r == DependencyManagement || r == ProfileDependencyManagement || r == Extensions || r.IsPlugin()
}
