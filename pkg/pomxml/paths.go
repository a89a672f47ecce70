package pomxml

import "github.com/matzehuels/pomrewrite/pkg/pom"

// rolePaths are the element paths, relative to <project>, of each role's
// entries.
var rolePaths = map[pom.Role]string{
	pom.Dependencies:                 "dependencies/dependency",
	pom.DependencyManagement:         "dependencyManagement/dependencies/dependency",
	pom.Extensions:                   "build/extensions/extension",
	pom.Plugins:                      "build/plugins/plugin",
	pom.PluginDependencies:           "build/plugins/plugin/dependencies/dependency",
	pom.PluginManagement:             "build/pluginManagement/plugins/plugin",
	pom.PluginManagementDependencies: "build/pluginManagement/plugins/plugin/dependencies/dependency",
	pom.ReportingPlugins:             "reporting/plugins/plugin",
	pom.ProfileDependencies:          "profiles/profile/dependencies/dependency",
	pom.ProfilePlugins:               "profiles/profile/build/plugins/plugin",
	pom.ProfileDependencyManagement:  "profiles/profile/dependencyManagement/dependencies/dependency",
	pom.ProfilePluginDependencies:    "profiles/profile/build/plugins/plugin/dependencies/dependency",
	pom.ProfilePluginManagement:      "profiles/profile/build/pluginManagement/plugins/plugin",
	pom.ReportingPluginDependencies:  "reporting/plugins/plugin/dependencies/dependency",
}

// containerPaths lists, for roles with a single container, the chain of
// elements under <project> that holds the entries. Roles nested under a
// repeated element (plugins, profiles) have no entry.
var containerPaths = map[pom.Role][]string{
	pom.Dependencies:         {"dependencies"},
	pom.DependencyManagement: {"dependencyManagement", "dependencies"},
	pom.Extensions:           {"build", "extensions"},
	pom.Plugins:              {"build", "plugins"},
	pom.PluginManagement:     {"build", "pluginManagement", "plugins"},
	pom.ReportingPlugins:     {"reporting", "plugins"},
}

func entryTag(role pom.Role) string {
	switch {
	case role.IsPlugin():
		return "plugin"
	case role == pom.Extensions:
		return "extension"
	default:
		return "dependency"
	}
}
