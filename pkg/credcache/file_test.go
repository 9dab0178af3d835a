package credcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestFileCache(t *testing.T, lifespanSeconds int) *FileCache {
	t.Helper()
	return NewFileCache(filepath.Join(t.TempDir(), "cache"), lifespanSeconds)
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("failed to read cache file: %v", err)
	}
	return strings.Count(string(data), "\n")
}

func TestFileCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t, 3600)

	if err := c.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	outcome, err := c.Authenticate(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if outcome != OutcomeMatch {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeMatch)
	}

	outcome, err = c.Authenticate(ctx, "alice", "wrong")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if outcome != OutcomeMismatch {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeMismatch)
	}
}

func TestFileCache_UnknownUser(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t, 3600)

	outcome, err := c.Authenticate(ctx, "nobody", "pw")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if outcome != OutcomeNotPresent {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeNotPresent)
	}
}

func TestFileCache_PlaintextNeverStored(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t, 3600)

	if err := c.Register(ctx, "alice", "super-secret-password"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		t.Fatalf("failed to read cache file: %v", err)
	}
	if strings.Contains(string(data), "super-secret-password") {
		t.Error("cache file contains the plaintext credential")
	}
}

func TestFileCache_ExpiryDeletesEntry(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t, 0) // lifespan 0: everything expires immediately

	if err := c.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if n := countLines(t, c.path); n != 1 {
		t.Fatalf("record count = %d, want 1", n)
	}

	outcome, err := c.Authenticate(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if outcome != OutcomeNotPresent {
		t.Errorf("outcome = %v, want %v (expired)", outcome, OutcomeNotPresent)
	}
	// Deletion is a side effect of the expired lookup.
	if n := countLines(t, c.path); n != 0 {
		t.Errorf("record count after expiry = %d, want 0", n)
	}

	// The second lookup finds nothing and must not attempt removal again.
	outcome, err = c.Authenticate(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if outcome != OutcomeNotPresent {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeNotPresent)
	}
}

func TestFileCache_PrefixSafety(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t, 3600)

	if err := c.Register(ctx, "bob", "bobs-pw"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	// "bo" must not match the stored "bob" record.
	outcome, err := c.Authenticate(ctx, "bo", "bobs-pw")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if outcome != OutcomeNotPresent {
		t.Errorf("outcome for %q = %v, want %v", "bo", outcome, OutcomeNotPresent)
	}

	// Deleting "bo" must leave the "bob" record untouched.
	if err := c.deleteUser("bo"); err != nil {
		t.Fatalf("deleteUser() error: %v", err)
	}
	if n := countLines(t, c.path); n != 1 {
		t.Errorf("record count after deleting %q = %d, want 1", "bo", n)
	}

	outcome, err = c.Authenticate(ctx, "bob", "bobs-pw")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if outcome != OutcomeMatch {
		t.Errorf("outcome for %q = %v, want %v", "bob", outcome, OutcomeMatch)
	}
}

func TestFileCache_InjectionRejected(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t, 3600)

	if err := c.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	for _, name := range []string{"evil::123.0::fake", "evil\nuser", "evil\r"} {
		if err := c.Register(ctx, name, "pw"); !errors.Is(err, ErrInvalidUsername) {
			t.Errorf("Register(%q) = %v, want ErrInvalidUsername", name, err)
		}
	}

	// Existing entries are intact and no synthetic lines were created.
	if n := countLines(t, c.path); n != 1 {
		t.Errorf("record count = %d, want 1", n)
	}
	outcome, err := c.Authenticate(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if outcome != OutcomeMatch {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeMatch)
	}
}

func TestFileCache_MalformedLinesSkipped(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t, 3600)

	if err := c.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	// Simulate a half-written line from a concurrent process.
	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		t.Fatalf("failed to open cache file: %v", err)
	}
	if _, err := f.WriteString("bob::1700000"); err != nil {
		t.Fatalf("failed to append partial line: %v", err)
	}
	f.Close()

	outcome, err := c.Authenticate(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("Authenticate() error with malformed line present: %v", err)
	}
	if outcome != OutcomeMatch {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeMatch)
	}

	outcome, err = c.Authenticate(ctx, "bob", "pw")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if outcome != OutcomeNotPresent {
		t.Errorf("outcome for half-written user = %v, want %v", outcome, OutcomeNotPresent)
	}
}

func TestFileCache_ClearRemovesFile(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t, 3600)

	if err := c.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(c.path); !os.IsNotExist(err) {
		t.Error("cache file still exists after Clear")
	}
	// Clearing an already-absent file is fine.
	if err := c.Clear(ctx); err != nil {
		t.Errorf("second Clear() error: %v", err)
	}
}

func TestFileCache_SupersededRecordStillAuthenticates(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t, 3600)

	if err := c.Register(ctx, "alice", "old-pw"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := c.Register(ctx, "alice", "new-pw"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	// Lookup returns the first line on file; the original registration
	// wins until it expires or is deleted.
	outcome, err := c.Authenticate(ctx, "alice", "old-pw")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if outcome != OutcomeMatch {
		t.Errorf("outcome = %v, want %v", outcome, OutcomeMatch)
	}
}

func TestFileCache_Entries(t *testing.T) {
	ctx := context.Background()
	c := newTestFileCache(t, 3600)

	for _, u := range []string{"alice", "bob"} {
		if err := c.Register(ctx, u, "pw"); err != nil {
			t.Fatalf("Register(%q) error: %v", u, err)
		}
	}
	entries, err := c.Entries()
	if err != nil {
		t.Fatalf("Entries() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Username != "alice" || entries[1].Username != "bob" {
		t.Errorf("entries = [%s %s], want [alice bob]", entries[0].Username, entries[1].Username)
	}
}
