package credcache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/cipherhq/dirgate/internal/logger"
)

// NetworkCache stores records in a memcached server.
//
// Each record lives under the key "<prefix>:<username>". Atomicity is
// whatever the remote store provides for single-key set/get; no extra
// locking is layered on top. Expiry is enforced lazily on access, exactly
// like the file backend, rather than through the server's own TTL, so a
// lifespan change in config takes effect for existing entries too.
type NetworkCache struct {
	client   *memcache.Client
	prefix   string
	lifespan time.Duration
	debug    bool
}

// NewNetworkCache creates a memcached-backed cache.
func NewNetworkCache(host string, port int, keyPrefix string, debug bool, lifespanSeconds int) *NetworkCache {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	return &NetworkCache{
		client:   memcache.New(addr),
		prefix:   keyPrefix,
		lifespan: time.Duration(lifespanSeconds) * time.Second,
		debug:    debug,
	}
}

// key derives the remote key for a username. The username is part of the
// key: a prefix-only key would make the whole cache a single slot where
// any user's registration evicts everyone else's.
func (c *NetworkCache) key(username string) string {
	return c.prefix + ":" + username
}

// Register stores a record for username, replacing any previous one.
func (c *NetworkCache) Register(ctx context.Context, username, credential string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateUsername(username); err != nil {
		return err
	}

	hash, err := hashCredential(credential)
	if err != nil {
		return fmt.Errorf("failed to hash credential: %w", err)
	}

	if c.debug {
		logger.Debug("registering cache entry", "user", username, "backend", "network", "key", c.key(username))
	}

	item := &memcache.Item{
		Key:   c.key(username),
		Value: []byte(encodeRecord(Record{Username: username, Created: time.Now(), Hash: hash})),
	}
	if err := c.client.Set(item); err != nil {
		return fmt.Errorf("failed to store cache record: %w", err)
	}
	return nil
}

// Authenticate fetches the record for username and verifies the credential.
func (c *NetworkCache) Authenticate(ctx context.Context, username, credential string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeNotPresent, err
	}

	item, err := c.client.Get(c.key(username))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return OutcomeNotPresent, nil
	}
	if err != nil {
		return OutcomeNotPresent, fmt.Errorf("failed to fetch cache record: %w", err)
	}

	rec, ok := decodeRecord(string(item.Value))
	if !ok || rec.Username != username {
		// Unreadable or foreign value under our key: drop it and treat
		// the entry as absent.
		_ = c.client.Delete(c.key(username))
		return OutcomeNotPresent, nil
	}
	if rec.Expired(c.lifespan, time.Now()) {
		logger.Info("deleting expired cache entry", "user", username, "backend", "network")
		if err := c.client.Delete(c.key(username)); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			return OutcomeNotPresent, fmt.Errorf("failed to delete expired record: %w", err)
		}
		return OutcomeNotPresent, nil
	}
	if credentialMatches(credential, rec.Hash) {
		return OutcomeMatch, nil
	}
	return OutcomeMismatch, nil
}

// Clear flushes the remote store. This wipes everything the server holds,
// not just dirgate's keys; memcached offers no per-prefix flush.
func (c *NetworkCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.client.DeleteAll(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}
