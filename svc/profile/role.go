package profile

import "slices"

// Role is the closed set of account roles. Wire values are French.
type Role string

const (
	RoleOrganizer Role = "organisateur"
	RolePlayer    Role = "joueur"
	RoleSpectator Role = "spectateur"
)

// Roles lists every valid role in display order.
func Roles() []Role {
	return []Role{RoleOrganizer, RolePlayer, RoleSpectator}
}

func (r Role) Valid() bool {
	return slices.Contains(Roles(), r)
}

func (r Role) String() string { return string(r) }
