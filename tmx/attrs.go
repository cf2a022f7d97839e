package tmx

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// Attribute coercion between TMX attribute text and typed values. TMX uses a
// compact UTC timestamp (YYYYMMDDTHHMMSSZ) and a few closed enumerations;
// parse and format are exact inverses so canonical values round-trip
// byte-for-byte. Malformed values are hard errors - the original tools that
// warned and kept the raw string produced files nobody could trust.

// XMLNamespace is the fixed namespace URI of the xml:lang attribute.
const XMLNamespace = "http://www.w3.org/XML/1998/namespace"

const dateLayout = "20060102T150405Z"

// Segtype is the segmentation kind carried by header and tu elements.
type Segtype string

const (
	SegtypeBlock     Segtype = "block"
	SegtypeParagraph Segtype = "paragraph"
	SegtypeSentence  Segtype = "sentence"
	SegtypePhrase    Segtype = "phrase"
)

// ParseSegtype validates a segtype attribute value. Matching is
// case-sensitive, as everywhere in TMX except xml:lang.
func ParseSegtype(raw string) (Segtype, error) {
	switch Segtype(raw) {
	case SegtypeBlock, SegtypeParagraph, SegtypeSentence, SegtypePhrase:
		return Segtype(raw), nil
	default:
		return "", &FormatError{Attr: "segtype", Value: raw, Want: "one of block, paragraph, sentence, phrase"}
	}
}

// Pos marks an isolated tag as the beginning or ending half of a native code
// pair whose other half lies outside the segment.
type Pos string

const (
	PosBegin Pos = "begin"
	PosEnd   Pos = "end"
)

func ParsePos(raw string) (Pos, error) {
	switch Pos(raw) {
	case PosBegin, PosEnd:
		return Pos(raw), nil
	default:
		return "", &FormatError{Attr: "pos", Value: raw, Want: "one of begin, end"}
	}
}

// Assoc ties a placeholder to the text before it, after it, or both.
type Assoc string

const (
	AssocPreceding Assoc = "p"
	AssocFollowing Assoc = "f"
	AssocBoth      Assoc = "b"
)

func ParseAssoc(raw string) (Assoc, error) {
	switch Assoc(raw) {
	case AssocPreceding, AssocFollowing, AssocBoth:
		return Assoc(raw), nil
	default:
		return "", &FormatError{Attr: "assoc", Value: raw, Want: "one of p, f, b"}
	}
}

// ParseInt coerces a base-10 integer attribute; attr names the attribute in
// the error.
func ParseInt(attr, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &FormatError{Attr: attr, Value: raw, Want: "base-10 integer"}
	}
	return v, nil
}

func FormatInt(v int) string {
	return strconv.Itoa(v)
}

// ParseDate coerces a TMX timestamp attribute. The pattern is UTC only, no
// offsets.
func ParseDate(attr, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &FormatError{Attr: attr, Value: raw, Want: "YYYYMMDDTHHMMSSZ timestamp"}
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// attrString returns an attribute value and whether the attribute is present
// at all, so that absent never collapses into the empty string by accident.
func attrString(el *etree.Element, key string) (string, bool) {
	if a := el.SelectAttr(key); a != nil {
		return a.Value, true
	}
	return "", false
}

func requiredAttr(el *etree.Element, key string) (string, error) {
	v, ok := attrString(el, key)
	if !ok {
		return "", &MissingAttributeError{Attr: key, Tag: el.Tag}
	}
	return v, nil
}

func requiredIntAttr(el *etree.Element, key string) (int, error) {
	raw, err := requiredAttr(el, key)
	if err != nil {
		return 0, err
	}
	return ParseInt(key, raw)
}

func optionalIntAttr(el *etree.Element, key string) (*int, error) {
	raw, ok := attrString(el, key)
	if !ok {
		return nil, nil
	}
	v, err := ParseInt(key, raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalDateAttr(el *etree.Element, key string) (*time.Time, error) {
	raw, ok := attrString(el, key)
	if !ok {
		return nil, nil
	}
	t, err := ParseDate(key, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// xmlLang returns the xml:lang attribute value honoring the fixed XML
// namespace, or "" when absent.
func xmlLang(el *etree.Element) string {
	for _, attr := range el.Attr {
		if (attr.Space == "xml" || attr.NamespaceURI() == XMLNamespace) && attr.Key == "lang" {
			return attr.Value
		}
	}
	return ""
}
