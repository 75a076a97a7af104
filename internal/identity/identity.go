// Package identity implements bearer-token authentication for Nivaran.
// It verifies OIDC tokens, extracts the acting user into an Actor, and
// injects the actor into the request context for domain preconditions.
package identity

import (
	"github.com/google/uuid"
)

// Role identifies an actor's position in the grievance workflow.
type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleLeader     Role = "leader"
	RoleOSD        Role = "osd"
	RolePolitician Role = "politician"
	RoleRegistrar  Role = "registrar"
)

// Roles returns all valid roles.
func Roles() []Role {
	return []Role{
		RoleCitizen,
		RoleLeader,
		RoleOSD,
		RolePolitician,
		RoleRegistrar,
	}
}

// ParseRole validates a string and returns the matching Role.
// Returns ErrUnknownRole if the value is not a valid role.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	for _, valid := range Roles() {
		if role == valid {
			return role, nil
		}
	}
	return "", ErrUnknownRole
}

// Actor is the verified identity attached to a request. PoliticianID is
// uuid.Nil for actors not scoped to a politician's office.
type Actor struct {
	UserID       string    `json:"user_id"`
	Role         Role      `json:"role"`
	PoliticianID uuid.UUID `json:"politician_id"`
}

// Privileged reports whether the actor may drive grievance workflow
// transitions such as assignment and resolution.
func (a Actor) Privileged() bool {
	switch a.Role {
	case RoleLeader, RoleOSD, RolePolitician:
		return true
	default:
		return false
	}
}
