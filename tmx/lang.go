package tmx

import "golang.org/x/text/language"

// NormalizeLang parses an xml:lang value (RFC 3066 tag, the one
// case-insensitive attribute in TMX) and reports its canonical form. The
// standard does not restrict the value set, so an unparseable tag is the
// caller's warning, never a hard error.
func NormalizeLang(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil || tag == language.Und {
		return raw, false
	}
	return tag.String(), true
}
