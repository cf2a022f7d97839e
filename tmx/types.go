package tmx

import "time"

// Structural model for TMX 1.4b following the published DTD. Optional scalar
// attributes are pointers (or empty strings where "" is not a meaningful
// value) so that absent never turns into a silent default.

// Tmx is the root document: one header plus the body's translation units.
type Tmx struct {
	Header Header
	Tus    []Tu
}

// Header carries document-wide defaults and administrative metadata.
type Header struct {
	CreationTool        string
	CreationToolVersion string
	Segtype             Segtype
	TMF                 string // o-tmf: format of the original TM file
	AdminLang           string
	SrcLang             string // "*all*" is a legal value
	DataType            string
	Encoding            string // o-encoding
	CreationDate        *time.Time
	CreationID          string
	ChangeDate          *time.Time
	ChangeID            string
	Notes               []Note
	Props               []Prop
	Udes                []Ude
}

// Note is a free-form comment attached to a header, tu or tuv.
type Note struct {
	Text     string
	Lang     string // xml:lang
	Encoding string // o-encoding
}

// Prop is a tool-defined property; by convention type values are prefixed
// with "x-".
type Prop struct {
	Text     string
	Type     string
	Lang     string
	Encoding string
}

// Map specifies one user-defined character and its properties inside a ude.
type Map struct {
	Unicode string // hexadecimal Unicode value, required
	Code    string // code-point in the user-defined encoding, "#x" prefixed
	Ent     string
	Subst   string
}

// Ude groups user-defined character mappings. Base becomes required as soon
// as any map carries a code value.
type Ude struct {
	Name string
	Base string
	Maps []Map
}

// Tu is one translation unit. Attributes left empty/nil default to the header
// values.
type Tu struct {
	TUID                string
	Encoding            string
	DataType            string
	UsageCount          *int
	LastUsageDate       *time.Time
	CreationTool        string
	CreationToolVersion string
	CreationDate        *time.Time
	CreationID          string
	ChangeDate          *time.Time
	ChangeID            string
	Segtype             Segtype // "" means inherit from header
	TMF                 string
	SrcLang             string
	Notes               []Note
	Props               []Prop
	Tuvs                []Tuv
}

// Tuv is one language's rendition of a tu; its segment is the mixed inline
// content of the <seg> child.
type Tuv struct {
	Lang                string // xml:lang, required
	Encoding            string
	DataType            string
	UsageCount          *int
	LastUsageDate       *time.Time
	CreationTool        string
	CreationToolVersion string
	CreationDate        *time.Time
	CreationID          string
	ChangeDate          *time.Time
	ChangeID            string
	TMF                 string
	Notes               []Note
	Props               []Prop
	Segment             []Node
}

// PlainText returns the segment's character data without code markup.
func (v *Tuv) PlainText() string {
	return PlainText(v.Segment)
}
