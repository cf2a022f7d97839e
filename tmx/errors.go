package tmx

import "fmt"

// Typed errors surfaced by the codec. All of them are terminal for the
// operation in progress - there is no partial output and the core does no
// logging. The caller (see the content package) decides whether a failed
// translation unit aborts the load or gets skipped.

// UnknownTagError reports an element inside inline content whose tag is not
// one of the recognized inline kinds.
type UnknownTagError struct {
	Tag    string
	Parent string
}

func (e *UnknownTagError) Error() string {
	if e.Parent == "" {
		return fmt.Sprintf("unknown tag <%s> in inline content", e.Tag)
	}
	return fmt.Sprintf("unknown tag <%s> inside <%s>", e.Tag, e.Parent)
}

// MissingAttributeError reports a required attribute that is absent: at parse
// time when the source markup lacks it, at serialization time when a node was
// built programmatically without it.
type MissingAttributeError struct {
	Attr string
	Tag  string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("element <%s> is missing attribute %q", e.Tag, e.Attr)
}

// FormatError reports an attribute value that is present but cannot be
// coerced to its expected type. The offending literal is kept for
// diagnostics.
type FormatError struct {
	Attr  string
	Value string
	Want  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("attribute %q: %q is not a valid %s", e.Attr, e.Value, e.Want)
}

// DisallowedContentError reports a node kind that is forbidden inside the
// content of a particular element, e.g. a bpt directly inside a ph.
type DisallowedContentError struct {
	Kind    NodeKind
	Context string
}

func (e *DisallowedContentError) Error() string {
	return fmt.Sprintf("<%s> elements are not allowed inside <%s>", e.Kind, e.Context)
}

// PairingViolation enumerates segment-level bpt/ept pairing failures.
type PairingViolation string

const (
	DuplicateBpt PairingViolation = "duplicate bpt"
	DuplicateEpt PairingViolation = "duplicate ept"
	OrphanBpt    PairingViolation = "orphan bpt"
	OrphanEpt    PairingViolation = "orphan ept"
)

// PairingError reports a bpt/ept pairing violation in a segment. Pos is the
// index of the offending node in the validation walk; it is -1 for orphans,
// which are only detectable after the full walk.
type PairingError struct {
	Violation PairingViolation
	I         int
	Pos       int
}

func (e *PairingError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("%s i=%d in segment", e.Violation, e.I)
	}
	return fmt.Sprintf("%s i=%d at node %d", e.Violation, e.I, e.Pos)
}
