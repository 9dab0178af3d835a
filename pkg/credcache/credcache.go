// Package credcache implements the time-bounded credential cache consulted
// before remote directory verification.
//
// A cache stores one CredentialRecord per username: the record creation
// time and a bcrypt hash of the credential that last verified successfully
// against the directory. The plaintext credential is never stored, so a
// compromised cache store alone does not disclose passwords. On every
// lookup the live credential is re-hashed against the stored salt, and
// expiry is enforced lazily: an expired record is deleted on access and
// reported as not present. There is no background sweep.
//
// Three interchangeable backends implement the Cache contract:
//
//   - FileCache: one record per line in a flat text file
//   - NetworkCache: a memcached server addressed by host:port
//   - BadgerCache: an embedded badger key-value database
package credcache

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Outcome is the result of a cache lookup.
type Outcome int

const (
	// OutcomeNotPresent means no valid record exists for the username.
	OutcomeNotPresent Outcome = iota

	// OutcomeMatch means a valid record exists and the credential matches.
	OutcomeMatch

	// OutcomeMismatch means a valid record exists but the credential does
	// not match the stored hash.
	OutcomeMismatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "match"
	case OutcomeMismatch:
		return "mismatch"
	default:
		return "not-present"
	}
}

// Cache is the pluggable credential cache contract.
//
// Register and Authenticate take the plaintext credential; only its hash
// ever reaches the backing store. Storage errors are returned to the
// caller, which converts them to a service-level failure at the engine
// boundary. Clear wipes all entries and exists for operational and test
// support.
type Cache interface {
	Register(ctx context.Context, username, credential string) error
	Authenticate(ctx context.Context, username, credential string) (Outcome, error)
	Clear(ctx context.Context) error
}

// ErrInvalidUsername is returned by Register for usernames that could
// corrupt the record encoding (field delimiter, line breaks) or that are
// empty.
var ErrInvalidUsername = errors.New("credcache: invalid username")

// ValidateUsername rejects usernames that cannot be stored safely. A name
// containing the field delimiter or a line break could forge synthetic
// records in the line-oriented encoding, so it is refused outright for
// every backend.
func ValidateUsername(username string) error {
	if username == "" ||
		strings.Contains(username, fieldDelimiter) ||
		strings.ContainsAny(username, "\n\r") {
		return ErrInvalidUsername
	}
	return nil
}

// hashCost is the bcrypt cost for cached credential hashes. Cost 10 keeps
// a cache hit comfortably under interactive-login latency.
const hashCost = 10

// hashCredential produces a salted one-way hash of the credential.
func hashCredential(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// credentialMatches re-hashes the live credential with the stored record's
// salt parameters and compares.
func credentialMatches(credential, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(credential)) == nil
}
