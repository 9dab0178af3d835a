// Package directory defines the remote directory collaborator consumed by
// the decision engine.
//
// The directory service is the ground truth for identity verification and
// group membership. dirgate does not implement the wire protocol to it;
// embedding hosts supply a Service implementation (LDAP, a SaaS directory
// API, a test double). Implementations own their own timeout policy: the
// engine passes a context through but sets no deadline of its own.
package directory

import (
	"context"
	"errors"
)

// Service is the remote directory collaborator.
//
// All methods block on network I/O. Implementations must be safe for
// concurrent use.
type Service interface {
	// Login verifies a user credential against the directory.
	//
	// Returns:
	//   - nil on success
	//   - ErrBadCredential when the credential is wrong
	//   - ErrChallengeRequired when the directory demands an interactive
	//     step-up (second factor, captcha) that cannot be satisfied here
	//   - any other error for unexpected failures
	Login(ctx context.Context, identity Identity, credential string) error

	// LoginAsAdmin authenticates the querying admin identity. It must be
	// called before IsMember; the session it establishes is not cached
	// across calls.
	LoginAsAdmin(ctx context.Context, identity Identity, credential string) error

	// IsMember reports whether username belongs to group.
	//
	// Returns ErrPermissionDenied when the logged-in admin identity lacks
	// the rights to answer the query.
	IsMember(ctx context.Context, username, group string) (bool, error)
}

// Standard directory errors.
var (
	// ErrBadCredential indicates the supplied credential is wrong.
	ErrBadCredential = errors.New("directory: bad credential")

	// ErrChallengeRequired indicates the directory demands an interactive
	// challenge that a non-interactive login cannot satisfy.
	ErrChallengeRequired = errors.New("directory: interactive challenge required")

	// ErrPermissionDenied indicates the querying admin identity lacks
	// sufficient privilege for the operation.
	ErrPermissionDenied = errors.New("directory: permission denied")
)

// Identity is a domain-qualified account.
type Identity struct {
	User   string
	Domain string
}

// NewIdentity qualifies a bare username with the configured domain.
func NewIdentity(user, domain string) Identity {
	return Identity{User: user, Domain: domain}
}

// Email renders the identity in the user@domain form the directory expects.
func (i Identity) Email() string {
	return i.User + "@" + i.Domain
}
