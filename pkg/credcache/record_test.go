package credcache

import (
	"strings"
	"testing"
	"time"
)

func TestRecordRoundTrip(t *testing.T) {
	in := Record{
		Username: "alice",
		Created:  time.Unix(1700000000, 500000000),
		Hash:     "$2a$10$abcdefghijklmnopqrstuv",
	}
	line := encodeRecord(in)

	out, ok := decodeRecord(line)
	if !ok {
		t.Fatalf("decodeRecord(%q) failed", line)
	}
	if out.Username != in.Username {
		t.Errorf("username = %q, want %q", out.Username, in.Username)
	}
	if out.Hash != in.Hash {
		t.Errorf("hash = %q, want %q", out.Hash, in.Hash)
	}
	// The float encoding keeps microsecond precision.
	if d := out.Created.Sub(in.Created); d > time.Millisecond || d < -time.Millisecond {
		t.Errorf("created drifted by %v", d)
	}
}

func TestDecodeRecordMalformed(t *testing.T) {
	cases := []string{
		"",
		"alice",
		"alice::123.0",
		"alice::notanumber::hash",
		"::123.0::hash",
		"alice::123.0::",
	}
	for _, line := range cases {
		if _, ok := decodeRecord(line); ok {
			t.Errorf("decodeRecord(%q) = ok, want malformed", line)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	for _, name := range []string{"alice", "bob.smith", "x", "user-1"} {
		if err := ValidateUsername(name); err != nil {
			t.Errorf("ValidateUsername(%q) = %v, want nil", name, err)
		}
	}
	for _, name := range []string{"", "a::b", "evil\nuser", "evil\ruser"} {
		if err := ValidateUsername(name); err == nil {
			t.Errorf("ValidateUsername(%q) = nil, want error", name)
		}
	}
}

func TestRecordExpired(t *testing.T) {
	now := time.Now()
	rec := Record{Created: now.Add(-2 * time.Hour)}

	if !rec.Expired(time.Hour, now) {
		t.Error("two-hour-old record with one-hour lifespan should be expired")
	}
	if rec.Expired(3*time.Hour, now) {
		t.Error("two-hour-old record with three-hour lifespan should be valid")
	}
	// Zero lifespan expires everything, including a record created "now".
	if !(Record{Created: now}).Expired(0, now) {
		t.Error("zero lifespan should expire a fresh record")
	}
}

func TestEncodeRecordSingleLine(t *testing.T) {
	line := encodeRecord(Record{Username: "alice", Created: time.Now(), Hash: "h"})
	if strings.Contains(line, "\n") {
		t.Errorf("encoded record contains a newline: %q", line)
	}
}
