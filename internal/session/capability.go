package session

import (
	"strings"

	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// Policy tunes how the admin capability is derived.
type Policy struct {
	// UsernameFallback also grants the capability to accounts whose
	// username contains "admin". It misclassifies unrelated accounts and
	// only exists for backends that expose no privilege field at all.
	UsernameFallback bool
}

// Capability reports whether identity may use the back office. An explicit
// role claim wins; otherwise any of the backend's privilege fields grants it.
func Capability(identity *models.AdminIdentity, policy Policy) bool {
	if identity == nil {
		return false
	}
	if role := strings.TrimSpace(strings.ToLower(identity.Role)); role != "" {
		return role == "admin"
	}
	if identity.IsSuperuser || identity.IsStaff || identity.IsAdmin {
		return true
	}
	return policy.UsernameFallback && strings.Contains(identity.Username, "admin")
}
