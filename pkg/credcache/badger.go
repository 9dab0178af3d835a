package credcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/cipherhq/dirgate/internal/logger"
)

// BadgerCache stores records in an embedded badger database. It gives a
// host cache persistence without either a world-readable flat file or a
// memcached daemon, at the cost of single-process ownership: badger locks
// the directory, so concurrent invocations must share one process.
type BadgerCache struct {
	db       *badger.DB
	lifespan time.Duration
}

// NewBadgerCache opens (or creates) a badger database at path.
func NewBadgerCache(path string, lifespanSeconds int) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}
	return &BadgerCache{
		db:       db,
		lifespan: time.Duration(lifespanSeconds) * time.Second,
	}, nil
}

// Register stores a record for username, replacing any previous one.
func (c *BadgerCache) Register(ctx context.Context, username, credential string) error {
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

	logger.Debug("registering cache entry", "user", username, "backend", "badger")

	value := []byte(encodeRecord(Record{Username: username, Created: time.Now(), Hash: hash}))
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(username), value)
	})
	if err != nil {
		return fmt.Errorf("failed to store cache record: %w", err)
	}
	return nil
}

// Authenticate fetches the record for username and verifies the credential.
func (c *BadgerCache) Authenticate(ctx context.Context, username, credential string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeNotPresent, err
	}

	var rec Record
	var found bool

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rec, found = decodeRecord(string(val))
			return nil
		})
	})
	if err != nil {
		return OutcomeNotPresent, fmt.Errorf("failed to fetch cache record: %w", err)
	}
	if !found {
		return OutcomeNotPresent, nil
	}
	if rec.Expired(c.lifespan, time.Now()) {
		logger.Info("deleting expired cache entry", "user", username, "backend", "badger")
		err := c.db.Update(func(txn *badger.Txn) error {
			return txn.Delete([]byte(username))
		})
		if err != nil {
			return OutcomeNotPresent, fmt.Errorf("failed to delete expired record: %w", err)
		}
		return OutcomeNotPresent, nil
	}
	if credentialMatches(credential, rec.Hash) {
		return OutcomeMatch, nil
	}
	return OutcomeMismatch, nil
}

// Clear drops every entry in the database.
func (c *BadgerCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.db.DropAll(); err != nil {
		return fmt.Errorf("failed to drop cache entries: %w", err)
	}
	return nil
}

// Close releases the database. The Cache contract has no Close; callers
// that own the backend lifetime type-assert for it.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
