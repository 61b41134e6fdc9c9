package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/driveline/placetrack/internal/gemini"
	"github.com/driveline/placetrack/internal/ingest"
)

func TestParseID(t *testing.T) {
	if id, err := parseID("42", "drive"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-1", "abc", ""} {
		if _, err := parseID(bad, "drive"); err == nil {
			t.Errorf("parseID(%q) should fail", bad)
		}
	}
}

func TestDeferReason(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ingest.ErrCredentialMissing, "pt key set"},
		{&ingest.ExtractionError{Err: gemini.ErrInvalidCredential}, "rejected"},
		{&ingest.ExtractionError{Err: gemini.ErrNetworkUnavailable}, "could not be reached"},
		{&ingest.ExtractionError{Err: gemini.ErrServiceOverloaded}, "overloaded"},
		{&ingest.ExtractionError{Err: gemini.ErrMalformedResponse}, "could not be parsed"},
		{errors.New("disk full"), "disk full"},
	}
	for _, c := range cases {
		if got := deferReason(c.err); !strings.Contains(got, c.want) {
			t.Errorf("deferReason(%v) = %q, want substring %q", c.err, got, c.want)
		}
	}
}

func TestMaskKey(t *testing.T) {
	if got := maskKey("AIzaSyExampleKey123"); !strings.HasPrefix(got, "AIza") || !strings.HasSuffix(got, "y123") {
		t.Errorf("maskKey long = %q", got)
	}
	if strings.Contains(maskKey("AIzaSyExampleKey123"), "Example") {
		t.Error("middle of the key should be masked")
	}
	if got := maskKey("short"); got != "*****" {
		t.Errorf("maskKey short = %q", got)
	}
}
