package auth

import (
	"strings"

	"github.com/aleksvarts/classroom-auth/internal/server/models"
)

// BuildScope derives the space-separated authorization scope string from a
// role set: for each role, "ROLE_"+name followed by its permission names, in
// slice order. Missing roles or permissions degrade to an empty or partial
// scope; this function never fails.
func BuildScope(roles []models.Role) string {
	var parts []string
	for _, role := range roles {
		parts = append(parts, "ROLE_"+role.Name)
		for _, p := range role.Permissions {
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(parts, " ")
}
