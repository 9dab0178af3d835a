package credcache

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// fieldDelimiter separates the username, creation timestamp, and hash in
// the persisted record encoding.
const fieldDelimiter = "::"

// Record is one cached credential: creation time plus the bcrypt hash of
// the credential that last verified against the directory.
type Record struct {
	Username string
	Created  time.Time
	Hash     string
}

// Expired reports whether the record has outlived the lifespan at the
// given instant. The comparison is a plain timestamp compare; no
// clock-skew correction is attempted.
func (r Record) Expired(lifespan time.Duration, now time.Time) bool {
	return !r.Created.Add(lifespan).After(now)
}

// encodeRecord renders a record as a single line:
//
//	username::<unix-timestamp-as-float>::<hash>
//
// The trailing newline is the caller's concern. bcrypt hashes never
// contain the delimiter, and Register refuses usernames that do, so the
// encoding is unambiguous.
func encodeRecord(r Record) string {
	created := float64(r.Created.UnixNano()) / float64(time.Second)
	return fmt.Sprintf("%s%s%f%s%s", r.Username, fieldDelimiter, created, fieldDelimiter, r.Hash)
}

// decodeRecord parses one encoded line. It returns false for anything
// malformed: wrong field count, unparseable timestamp, empty hash. A
// half-written line from a concurrent writer must be skipped, not treated
// as fatal.
func decodeRecord(line string) (Record, bool) {
	line = strings.TrimRight(line, "\n")
	fields := strings.SplitN(line, fieldDelimiter, 3)
	if len(fields) != 3 || fields[0] == "" || fields[2] == "" {
		return Record{}, false
	}
	created, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Record{}, false
	}
	return Record{
		Username: fields[0],
		Created:  time.Unix(0, int64(created*float64(time.Second))),
		Hash:     fields[2],
	}, true
}
