// Package pamhost adapts the decision engine to a PAM-style embedding
// host.
//
// A host stack dispatches a fixed set of management functions; this
// package maps each of them onto the engine and translates engine
// decisions into the numeric result codes the host understands. Only
// authentication is meaningfully implemented; credential establishment
// always succeeds and the remaining entry points report that the module
// does not provide the service.
package pamhost

import (
	"context"

	"github.com/cipherhq/dirgate/pkg/engine"
)

// Code is the result a management function hands back to the host stack.
type Code int

const (
	// CodeSuccess lets the stack proceed.
	CodeSuccess Code = iota

	// CodeAuthErr denies the attempt.
	CodeAuthErr

	// CodeIgnore removes this module from the stack's vote.
	CodeIgnore

	// CodeServiceErr signals an internal failure.
	CodeServiceErr
)

func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeAuthErr:
		return "auth_err"
	case CodeIgnore:
		return "ignore"
	case CodeServiceErr:
		return "service_err"
	default:
		return "unknown"
	}
}

// Conversation supplies the credential for the user under test. Hosts
// back this with their prompt machinery; the adapter calls it at most
// once per authentication and never for excluded or unconfigured
// attempts.
type Conversation func() (string, error)

// Module is the host-facing surface. One instance serves the whole
// session lifetime and is safe for concurrent dispatch.
type Module struct {
	engine *engine.Engine
}

// NewModule wraps an engine for host dispatch.
func NewModule(e *engine.Engine) *Module {
	return &Module{engine: e}
}

// Authenticate runs the decision pipeline for username, pulling the
// credential from conv only if the pipeline needs it.
func (m *Module) Authenticate(ctx context.Context, username string, conv Conversation) Code {
	d := m.engine.Authenticate(ctx, engine.Attempt{
		Username:   username,
		Credential: conv,
	})
	return codeFor(d)
}

// SetCred unconditionally succeeds. There are no host credentials to
// establish or refresh on behalf of the directory.
func (m *Module) SetCred(_ context.Context, _ string) Code {
	return CodeSuccess
}

// AcctMgmt is not provided.
func (m *Module) AcctMgmt(_ context.Context, _ string) Code {
	return CodeServiceErr
}

// ChAuthTok is not provided. Credential changes happen against the
// directory itself, not through the host stack.
func (m *Module) ChAuthTok(_ context.Context, _ string) Code {
	return CodeServiceErr
}

// OpenSession is not provided.
func (m *Module) OpenSession(_ context.Context, _ string) Code {
	return CodeServiceErr
}

// CloseSession is not provided.
func (m *Module) CloseSession(_ context.Context, _ string) Code {
	return CodeServiceErr
}

func codeFor(d engine.Decision) Code {
	switch d {
	case engine.DecisionSuccess:
		return CodeSuccess
	case engine.DecisionRejected:
		return CodeAuthErr
	case engine.DecisionIgnored:
		return CodeIgnore
	default:
		return CodeServiceErr
	}
}
