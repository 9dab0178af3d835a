package credcache

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cipherhq/dirgate/internal/logger"
)

// FileCache stores one record per line in a flat text file.
//
// The file is shared by concurrent invocations from separate processes
// with no locking: interleaved writes can lose updates and a reader may
// observe a half-written line. Both are tolerated — a malformed line is
// skipped during lookup and a vanished file is treated as an empty cache,
// never as an error.
type FileCache struct {
	path     string
	lifespan time.Duration
}

// NewFileCache creates a file-backed cache at path with the given record
// lifespan in seconds.
func NewFileCache(path string, lifespanSeconds int) *FileCache {
	return &FileCache{
		path:     path,
		lifespan: time.Duration(lifespanSeconds) * time.Second,
	}
}

// Register appends a record for username. The encoded line is written in a
// single call so one Register produces at most one line.
func (c *FileCache) Register(ctx context.Context, username, credential string) error {
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

	logger.Debug("registering cache entry", "user", username, "backend", "file")

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	line := encodeRecord(Record{Username: username, Created: time.Now(), Hash: hash}) + "\n"
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append cache record: %w", err)
	}
	return nil
}

// Authenticate looks up username and verifies the credential against the
// stored hash. Expired records are deleted on access and reported as not
// present.
func (c *FileCache) Authenticate(ctx context.Context, username, credential string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return OutcomeNotPresent, err
	}

	rec, found, err := c.lookup(username)
	if err != nil {
		return OutcomeNotPresent, err
	}
	if !found {
		return OutcomeNotPresent, nil
	}
	if rec.Expired(c.lifespan, time.Now()) {
		logger.Info("deleting expired cache entry", "user", username, "backend", "file")
		if err := c.deleteUser(username); err != nil {
			return OutcomeNotPresent, err
		}
		return OutcomeNotPresent, nil
	}
	if credentialMatches(credential, rec.Hash) {
		return OutcomeMatch, nil
	}
	return OutcomeMismatch, nil
}

// Clear deletes the backing file. A missing file is not an error.
func (c *FileCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file: %w", err)
	}
	return nil
}

// Entries returns the usernames and creation times currently on file,
// malformed lines excluded. Operational support for the CLI; the engine
// never calls it.
func (c *FileCache) Entries() ([]Record, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	var out []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if rec, ok := decodeRecord(scanner.Text()); ok {
			out = append(out, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	return out, nil
}

// Lifespan returns the configured record validity window.
func (c *FileCache) Lifespan() time.Duration {
	return c.lifespan
}

// lookup scans for the first well-formed line whose username field is
// exactly username. The file may disappear between any check and the open;
// that reads as an empty cache.
func (c *FileCache) lookup(username string) (Record, bool, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rec, ok := decodeRecord(scanner.Text())
		if !ok {
			continue
		}
		// Exact field compare: "bo" must not match a record for "bob".
		if rec.Username == username {
			return rec, true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return Record{}, false, fmt.Errorf("failed to read cache file: %w", err)
	}
	return Record{}, false, nil
}

// deleteUser rewrites the file with every record for username removed.
// Missing file is a no-op. Lines that fail to decode are preserved as-is:
// a concurrent writer may still be completing them.
func (c *FileCache) deleteUser(username string) error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		if rec, ok := decodeRecord(line); ok && rec.Username == username {
			continue
		}
		kept = append(kept, line)
	}

	content := ""
	if len(kept) > 0 {
		content = strings.Join(kept, "\n") + "\n"
	}
	if err := os.WriteFile(c.path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to rewrite cache file: %w", err)
	}
	return nil
}
