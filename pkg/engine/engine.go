// Package engine implements the authentication decision pipeline.
//
// One Engine invocation decides one login attempt. The pipeline runs a
// single synchronous pass with no backtracking, terminal on the first
// short-circuit:
//
//	exclusion list → credential acquisition → cache lookup →
//	group-membership gate → remote verification → cache registration
//
// The exclusion check runs before the credential is acquired so excluded
// accounts are never prompted. The cache check runs before the group gate
// and the remote call (cheapest path first) but after acquisition, because
// verifying a cached hash needs the live credential. The group gate runs
// before the remote call so a user who would be rejected anyway never
// costs a remote login attempt — and after the cache check so a cached
// success never incurs a group lookup.
//
// Every collaborator failure is converted to a Decision at this boundary;
// nothing propagates past the engine as a fault.
package engine

import (
	"context"
	"errors"
	"slices"

	"github.com/cipherhq/dirgate/internal/logger"
	"github.com/cipherhq/dirgate/pkg/config"
	"github.com/cipherhq/dirgate/pkg/credcache"
	"github.com/cipherhq/dirgate/pkg/directory"
	"github.com/cipherhq/dirgate/pkg/metrics"
)

// Attempt is one transient login attempt. Credential is a deferred
// supplier (typically the host's conversation prompt) invoked at most
// once, and only when no short-circuit applies first.
type Attempt struct {
	Username   string
	Credential func() (string, error)
}

// Engine orchestrates the decision pipeline. It is built once from its
// collaborators and configuration; nothing is resolved from process-wide
// state.
type Engine struct {
	cfg     *config.Config
	dir     directory.Service
	cache   credcache.Cache
	gate    *MembershipGate
	metrics *metrics.AuthMetrics
}

// New creates an Engine.
//
// cache may be nil (caching disabled). m may be nil (no instrumentation).
func New(cfg *config.Config, dir directory.Service, cache credcache.Cache, m *metrics.AuthMetrics) *Engine {
	admin := directory.NewIdentity(cfg.Gate.AdminUsername, cfg.Gate.Domain)
	return &Engine{
		cfg:     cfg,
		dir:     dir,
		cache:   cache,
		gate:    NewMembershipGate(dir, admin, cfg.Gate.AdminPassword, cfg.Gate.RequiredGroups()),
		metrics: m,
	}
}

// Authenticate runs the pipeline for one attempt and returns the terminal
// decision.
func (e *Engine) Authenticate(ctx context.Context, attempt Attempt) Decision {
	logger.Debug("starting authentication", "user", attempt.Username)

	if !e.cfg.Gate.Configured() {
		logger.Info("dirgate not configured, deferring", "user", attempt.Username)
		return e.done(DecisionIgnored)
	}

	if slices.Contains(e.cfg.Gate.ExcludedUsers(), attempt.Username) {
		logger.Info("user is in excluded list", "user", attempt.Username)
		return e.done(DecisionIgnored)
	}

	credential, err := attempt.Credential()
	if err != nil {
		logger.Error("credential acquisition failed", "user", attempt.Username, "error", err)
		return e.done(DecisionServiceError)
	}

	if e.cache != nil {
		logger.Debug("checking credential cache", "user", attempt.Username)
		outcome, err := e.cache.Authenticate(ctx, attempt.Username, credential)
		if err != nil {
			logger.Error("credential cache lookup failed", "user", attempt.Username, "error", err)
			e.metrics.ObserveCacheLookup("error")
			return e.done(DecisionServiceError)
		}
		e.metrics.ObserveCacheLookup(outcome.String())
		switch outcome {
		case credcache.OutcomeMatch:
			logger.Info("authentication via cache succeeded", "user", attempt.Username)
			return e.done(DecisionSuccess)
		case credcache.OutcomeMismatch:
			// Terminal: no fallthrough to remote verification on a
			// mismatch, matching the cache-as-authority policy.
			logger.Info("authentication via cache failed", "user", attempt.Username)
			return e.done(DecisionRejected)
		}
		logger.Debug("no cache entry", "user", attempt.Username)
	}

	allowed, err := e.gate.Allowed(ctx, attempt.Username)
	if err != nil {
		if errors.Is(err, directory.ErrPermissionDenied) {
			logger.Error("admin identity lacks privilege for membership query", "user", attempt.Username, "error", err)
			return e.done(DecisionRejected)
		}
		logger.Error("group membership query failed", "user", attempt.Username, "error", err)
		return e.done(DecisionServiceError)
	}
	if !allowed {
		logger.Info("user is not a member of any required group",
			"user", attempt.Username, "groups", e.gate.Groups())
		return e.done(DecisionRejected)
	}

	identity := directory.NewIdentity(attempt.Username, e.cfg.Gate.Domain)
	switch err := e.dir.Login(ctx, identity, credential); {
	case err == nil:
		e.metrics.ObserveRemoteLogin("success")
	case errors.Is(err, directory.ErrBadCredential):
		logger.Info("authentication failed", "user", attempt.Username)
		e.metrics.ObserveRemoteLogin("bad_credential")
		return e.done(DecisionRejected)
	case errors.Is(err, directory.ErrChallengeRequired):
		logger.Error("directory requires interactive challenge", "user", attempt.Username)
		e.metrics.ObserveRemoteLogin("challenge")
		return e.done(DecisionRejected)
	default:
		logger.Error("unexpected directory failure", "user", attempt.Username, "error", err)
		e.metrics.ObserveRemoteLogin("error")
		return e.done(DecisionServiceError)
	}

	if e.cache != nil {
		if err := e.cache.Register(ctx, attempt.Username, credential); err != nil {
			logger.Error("failed to register cache entry", "user", attempt.Username, "error", err)
			return e.done(DecisionServiceError)
		}
	}

	logger.Info("authentication succeeded", "user", attempt.Username)
	return e.done(DecisionSuccess)
}

func (e *Engine) done(d Decision) Decision {
	e.metrics.ObserveDecision(d.String())
	return d
}
