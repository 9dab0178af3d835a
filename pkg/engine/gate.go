package engine

import (
	"context"
	"fmt"

	"github.com/cipherhq/dirgate/pkg/directory"
)

// MembershipGate authorizes a user by directory group membership.
//
// The configured groups are OR-combined: belonging to any one of them
// passes the gate. An empty group set means no restriction and the gate
// reports every user as allowed without touching the directory.
type MembershipGate struct {
	dir           directory.Service
	admin         directory.Identity
	adminPassword string
	groups        []string
}

// NewMembershipGate builds a gate that queries dir as the given admin
// identity.
func NewMembershipGate(dir directory.Service, admin directory.Identity, adminPassword string, groups []string) *MembershipGate {
	return &MembershipGate{
		dir:           dir,
		admin:         admin,
		adminPassword: adminPassword,
		groups:        groups,
	}
}

// Groups returns the configured group set.
func (g *MembershipGate) Groups() []string {
	return g.groups
}

// Allowed reports whether username passes the gate.
//
// Returns:
//   - (true, nil) when no groups are configured or the user belongs to at
//     least one of them
//   - (false, nil) when the user belongs to none
//   - (false, err) when the directory could not answer; in particular
//     directory.ErrPermissionDenied when the admin identity lacks the
//     rights, which the engine treats as an authorization failure
//
// The admin session is established once per evaluation and not cached
// across calls.
func (g *MembershipGate) Allowed(ctx context.Context, username string) (bool, error) {
	if len(g.groups) == 0 {
		return true, nil
	}

	if err := g.dir.LoginAsAdmin(ctx, g.admin, g.adminPassword); err != nil {
		return false, fmt.Errorf("admin login failed: %w", err)
	}

	for _, group := range g.groups {
		member, err := g.dir.IsMember(ctx, username, group)
		if err != nil {
			return false, err
		}
		if member {
			return true, nil
		}
	}
	return false, nil
}
