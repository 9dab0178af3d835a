package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextOutputContainsFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "DEBUG", "text")

	Info("cache entry registered", "user", "alice", "backend", "file")

	out := buf.String()
	if !strings.Contains(out, "[INFO]") {
		t.Errorf("output missing level marker: %q", out)
	}
	if !strings.Contains(out, "cache entry registered") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "user=alice") || !strings.Contains(out, "backend=file") {
		t.Errorf("output missing attrs: %q", out)
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "WARN", "text")

	Debug("should be dropped")
	Info("should be dropped too")
	Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("low-level records leaked through filter: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json")

	Info("decision", "outcome", "success")

	out := buf.String()
	if !strings.Contains(out, `"outcome":"success"`) {
		t.Errorf("json output missing attr: %q", out)
	}
}
