package tmx

import (
	"errors"
	"testing"
	"time"
)

func TestDateRoundTrip(t *testing.T) {
	for _, s := range []string{
		"20020125T211130Z",
		"19991231T235959Z",
		"20230512T093011Z",
	} {
		ts, err := ParseDate("creationdate", s)
		if err != nil {
			t.Fatalf("%s: ParseDate: %v", s, err)
		}
		if got := FormatDate(ts); got != s {
			t.Fatalf("round trip mismatch: %q -> %q", s, got)
		}
	}
}

func TestParseDateRejectsOtherShapes(t *testing.T) {
	for _, s := range []string{
		"2002-01-25T21:11:30Z", // ISO 8601 with separators
		"20020125T211130",      // missing Z
		"20020125T211130+0100", // offsets are not allowed
		"20021325T211130Z",     // month out of range
		"20020125",
	} {
		_, err := ParseDate("creationdate", s)
		var fErr *FormatError
		if !errors.As(err, &fErr) {
			t.Fatalf("%s: expected FormatError, got %v", s, err)
		}
		if fErr.Attr != "creationdate" || fErr.Value != s {
			t.Fatalf("%s: unexpected error detail: %+v", s, fErr)
		}
	}
}

func TestFormatDateNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2023, 5, 12, 10, 30, 11, 0, loc)
	if got := FormatDate(ts); got != "20230512T093011Z" {
		t.Fatalf("expected UTC rendering, got %q", got)
	}
}

func TestParseIntKeepsLiteral(t *testing.T) {
	v, err := ParseInt("usagecount", "12")
	if err != nil || v != 12 {
		t.Fatalf("ParseInt: %d, %v", v, err)
	}
	_, err = ParseInt("usagecount", "12a")
	var fErr *FormatError
	if !errors.As(err, &fErr) || fErr.Value != "12a" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnumsAreCaseSensitive(t *testing.T) {
	if _, err := ParseSegtype("sentence"); err != nil {
		t.Fatalf("ParseSegtype: %v", err)
	}
	if _, err := ParseSegtype("Sentence"); err == nil {
		t.Fatalf("segtype values are case sensitive")
	}
	if _, err := ParsePos("begin"); err != nil {
		t.Fatalf("ParsePos: %v", err)
	}
	if _, err := ParsePos("Begin"); err == nil {
		t.Fatalf("pos values are case sensitive")
	}
	if _, err := ParseAssoc("p"); err != nil {
		t.Fatalf("ParseAssoc: %v", err)
	}
	if _, err := ParseAssoc("P"); err == nil {
		t.Fatalf("assoc values are case sensitive")
	}
	if _, err := ParseAssoc("x"); err == nil {
		t.Fatalf("assoc accepts only p, f and b")
	}
}

func TestNormalizeLang(t *testing.T) {
	for _, tc := range []struct {
		raw, want string
		ok        bool
	}{
		{"en-us", "en-US", true},
		{"EN", "en", true},
		{"de-DE", "de-DE", true},
		{"not a tag", "not a tag", false},
	} {
		got, ok := NormalizeLang(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("NormalizeLang(%q) = %q, %v; want %q, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}
