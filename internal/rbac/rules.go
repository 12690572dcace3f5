package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"viewer": {
		"bank:view",
		"bank:list",
		"bank:export",
		"convert",
	},
	"author": {
		"bank:view",
		"bank:list",
		"bank:export",
		"bank:import",
		"bank:delete",
		"source:view",
		"convert",
	},
	"admin": {
		"*", // everything
	},
}
