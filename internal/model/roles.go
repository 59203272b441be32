package model

// Role is a coarse account role persisted as a string.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
	RoleFounder   Role = "founder"
)

// Capability names a privileged action gated by role.
type Capability string

const (
	// CapModerate allows mutating or deleting entities owned by other users.
	CapModerate Capability = "moderate"
	// CapManageCatalog allows editing the canonical make/model/generation catalog.
	CapManageCatalog Capability = "manage_catalog"
)

var roleCaps = map[Role]map[Capability]bool{
	RoleModerator: {CapModerate: true},
	RoleAdmin:     {CapModerate: true, CapManageCatalog: true},
	RoleFounder:   {CapModerate: true, CapManageCatalog: true},
}

// Can is the single capability check used everywhere a privileged action is
// gated. Routes never test role lists directly.
func (r Role) Can(c Capability) bool {
	return roleCaps[r][c]
}
