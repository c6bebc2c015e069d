package rbac

// Default policy for the exam hall. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"session:create",
		"session:view",
		"session:answer",
		"session:grade",
		"result:view-own",
	},
	"teacher": {
		"question:view",
		"session:view",
		"result:list",
	},
	"admin": {
		"*", // everything
	},
}
