package tmx

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
)

// XML serialization, the exact inverse of parse.go. Text placement follows
// the node order: leading text runs become the element's own text, any text
// after a child element becomes that child's tail. Consecutive text nodes
// concatenate; the parser never produces them but a caller may.

// BuildDocument converts the typed document back into an etree DOM ready to
// be written out. Every segment is validated before its seg element is
// produced - a malformed segment must never serialize to invalid TMX.
func BuildDocument(t *Tmx) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("tmx")
	root.CreateAttr("version", "1.4")
	if err := appendHeader(root, &t.Header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	body := root.CreateElement("body")
	for i := range t.Tus {
		if err := appendTu(body, &t.Tus[i]); err != nil {
			return nil, fmt.Errorf("tu %d: %w", i+1, err)
		}
	}
	return doc, nil
}

func appendHeader(parent *etree.Element, h *Header) error {
	if h.Segtype != "" {
		if _, err := ParseSegtype(string(h.Segtype)); err != nil {
			return err
		}
	}
	required := []struct{ key, value string }{
		{"creationtool", h.CreationTool},
		{"creationtoolversion", h.CreationToolVersion},
		{"segtype", string(h.Segtype)},
		{"o-tmf", h.TMF},
		{"adminlang", h.AdminLang},
		{"srclang", h.SrcLang},
		{"datatype", h.DataType},
	}
	el := parent.CreateElement("header")
	for _, attr := range required {
		if attr.value == "" {
			return &MissingAttributeError{Attr: attr.key, Tag: "header"}
		}
		el.CreateAttr(attr.key, attr.value)
	}
	setOptionalAttr(el, "o-encoding", h.Encoding)
	setOptionalDate(el, "creationdate", h.CreationDate)
	setOptionalAttr(el, "creationid", h.CreationID)
	setOptionalDate(el, "changedate", h.ChangeDate)
	setOptionalAttr(el, "changeid", h.ChangeID)

	for i := range h.Notes {
		appendNote(el, &h.Notes[i])
	}
	for i := range h.Props {
		if err := appendProp(el, &h.Props[i]); err != nil {
			return err
		}
	}
	for i := range h.Udes {
		if err := appendUde(el, &h.Udes[i]); err != nil {
			return err
		}
	}
	return nil
}

func appendNote(parent *etree.Element, n *Note) {
	el := parent.CreateElement("note")
	el.SetText(n.Text)
	if n.Lang != "" {
		el.CreateAttr("xml:lang", n.Lang)
	}
	setOptionalAttr(el, "o-encoding", n.Encoding)
}

func appendProp(parent *etree.Element, p *Prop) error {
	if p.Type == "" {
		return &MissingAttributeError{Attr: "type", Tag: "prop"}
	}
	el := parent.CreateElement("prop")
	el.SetText(p.Text)
	el.CreateAttr("type", p.Type)
	if p.Lang != "" {
		el.CreateAttr("xml:lang", p.Lang)
	}
	setOptionalAttr(el, "o-encoding", p.Encoding)
	return nil
}

func appendUde(parent *etree.Element, u *Ude) error {
	if u.Name == "" {
		return &MissingAttributeError{Attr: "name", Tag: "ude"}
	}
	if u.Base == "" {
		for i := range u.Maps {
			if u.Maps[i].Code != "" {
				// per the DTD base is mandatory once any map carries a code
				return &MissingAttributeError{Attr: "base", Tag: "ude"}
			}
		}
	}
	el := parent.CreateElement("ude")
	el.CreateAttr("name", u.Name)
	setOptionalAttr(el, "base", u.Base)
	for i := range u.Maps {
		if err := appendMap(el, &u.Maps[i]); err != nil {
			return err
		}
	}
	return nil
}

func appendMap(parent *etree.Element, m *Map) error {
	if m.Unicode == "" {
		return &MissingAttributeError{Attr: "unicode", Tag: "map"}
	}
	el := parent.CreateElement("map")
	el.CreateAttr("unicode", m.Unicode)
	setOptionalAttr(el, "code", m.Code)
	setOptionalAttr(el, "ent", m.Ent)
	setOptionalAttr(el, "subst", m.Subst)
	return nil
}

func appendTu(parent *etree.Element, tu *Tu) error {
	if tu.Segtype != "" {
		if _, err := ParseSegtype(string(tu.Segtype)); err != nil {
			return err
		}
	}
	el := parent.CreateElement("tu")
	setOptionalAttr(el, "tuid", tu.TUID)
	setOptionalAttr(el, "o-encoding", tu.Encoding)
	setOptionalAttr(el, "datatype", tu.DataType)
	setOptionalInt(el, "usagecount", tu.UsageCount)
	setOptionalDate(el, "lastusagedate", tu.LastUsageDate)
	setOptionalAttr(el, "creationtool", tu.CreationTool)
	setOptionalAttr(el, "creationtoolversion", tu.CreationToolVersion)
	setOptionalDate(el, "creationdate", tu.CreationDate)
	setOptionalAttr(el, "creationid", tu.CreationID)
	setOptionalDate(el, "changedate", tu.ChangeDate)
	setOptionalAttr(el, "segtype", string(tu.Segtype))
	setOptionalAttr(el, "changeid", tu.ChangeID)
	setOptionalAttr(el, "o-tmf", tu.TMF)
	setOptionalAttr(el, "srclang", tu.SrcLang)

	// DTD order: notes and props come before the variants
	for i := range tu.Notes {
		appendNote(el, &tu.Notes[i])
	}
	for i := range tu.Props {
		if err := appendProp(el, &tu.Props[i]); err != nil {
			return err
		}
	}
	for i := range tu.Tuvs {
		if err := appendTuv(el, &tu.Tuvs[i]); err != nil {
			return fmt.Errorf("tuv %d: %w", i+1, err)
		}
	}
	return nil
}

func appendTuv(parent *etree.Element, v *Tuv) error {
	if v.Lang == "" {
		return &MissingAttributeError{Attr: "xml:lang", Tag: "tuv"}
	}
	el := parent.CreateElement("tuv")
	el.CreateAttr("xml:lang", v.Lang)
	setOptionalAttr(el, "o-encoding", v.Encoding)
	setOptionalAttr(el, "datatype", v.DataType)
	setOptionalInt(el, "usagecount", v.UsageCount)
	setOptionalDate(el, "lastusagedate", v.LastUsageDate)
	setOptionalAttr(el, "creationtool", v.CreationTool)
	setOptionalAttr(el, "creationtoolversion", v.CreationToolVersion)
	setOptionalDate(el, "creationdate", v.CreationDate)
	setOptionalAttr(el, "creationid", v.CreationID)
	setOptionalDate(el, "changedate", v.ChangeDate)
	setOptionalAttr(el, "changeid", v.ChangeID)
	setOptionalAttr(el, "o-tmf", v.TMF)

	for i := range v.Notes {
		appendNote(el, &v.Notes[i])
	}
	for i := range v.Props {
		if err := appendProp(el, &v.Props[i]); err != nil {
			return err
		}
	}
	if err := ValidateSegment(v.Segment); err != nil {
		return err
	}
	return SerializeSegment(el.CreateElement("seg"), v.Segment)
}

// SerializeSegment writes a node sequence into an (empty) seg element,
// reconstructing exact text/child/tail placement. It is the functional
// inverse of ParseSegment.
func SerializeSegment(seg *etree.Element, nodes []Node) error {
	return appendContent(seg, nodes, ruleSegment)
}

func appendContent(parent *etree.Element, nodes []Node, rule contentRule) error {
	for i := range nodes {
		n := &nodes[i]
		if n.Kind == NodeText {
			appendText(parent, n.Text)
			continue
		}
		// checked before descending so the diagnostic names the node kind
		// and its context rather than failing somewhere deeper
		if !rule.allows(n.Kind) {
			return &DisallowedContentError{Kind: n.Kind, Context: parent.Tag}
		}
		if err := appendInlineNode(parent, n); err != nil {
			return err
		}
	}
	return nil
}

// appendText places a text run: element text while no child exists yet,
// otherwise the tail of the last child. Consecutive runs concatenate.
func appendText(parent *etree.Element, text string) {
	children := parent.ChildElements()
	if len(children) == 0 {
		parent.SetText(parent.Text() + text)
		return
	}
	last := children[len(children)-1]
	last.SetTail(last.Tail() + text)
}

func appendInlineNode(parent *etree.Element, n *Node) error {
	switch n.Kind {
	case NodeBpt:
		if n.I == nil {
			return &MissingAttributeError{Attr: "i", Tag: "bpt"}
		}
		el := parent.CreateElement("bpt")
		el.CreateAttr("i", FormatInt(*n.I))
		setOptionalInt(el, "x", n.X)
		setOptionalAttr(el, "type", n.Type)
		return appendContent(el, n.Content, ruleCodes)
	case NodeEpt:
		if n.I == nil {
			return &MissingAttributeError{Attr: "i", Tag: "ept"}
		}
		el := parent.CreateElement("ept")
		el.CreateAttr("i", FormatInt(*n.I))
		return appendContent(el, n.Content, ruleCodes)
	case NodeIt:
		if n.Pos == "" {
			return &MissingAttributeError{Attr: "pos", Tag: "it"}
		}
		if _, err := ParsePos(string(n.Pos)); err != nil {
			return err
		}
		el := parent.CreateElement("it")
		el.CreateAttr("pos", string(n.Pos))
		setOptionalInt(el, "x", n.X)
		setOptionalAttr(el, "type", n.Type)
		return appendContent(el, n.Content, ruleCodes)
	case NodePh:
		if n.Assoc != "" {
			if _, err := ParseAssoc(string(n.Assoc)); err != nil {
				return err
			}
		}
		el := parent.CreateElement("ph")
		setOptionalInt(el, "x", n.X)
		setOptionalAttr(el, "type", n.Type)
		setOptionalAttr(el, "assoc", string(n.Assoc))
		return appendContent(el, n.Content, ruleCodes)
	case NodeHi:
		el := parent.CreateElement("hi")
		setOptionalInt(el, "x", n.X)
		setOptionalAttr(el, "type", n.Type)
		return appendContent(el, n.Content, ruleSpans)
	case NodeSub:
		el := parent.CreateElement("sub")
		setOptionalAttr(el, "type", n.Type)
		setOptionalAttr(el, "datatype", n.DataType)
		return appendContent(el, n.Content, ruleSpans)
	case NodeUt:
		el := parent.CreateElement("ut")
		setOptionalInt(el, "x", n.X)
		return appendContent(el, n.Content, ruleCodes)
	default:
		return fmt.Errorf("cannot serialize node of kind %q", n.Kind)
	}
}

func setOptionalAttr(el *etree.Element, key, value string) {
	if value != "" {
		el.CreateAttr(key, value)
	}
}

func setOptionalInt(el *etree.Element, key string, v *int) {
	if v != nil {
		el.CreateAttr(key, FormatInt(*v))
	}
}

func setOptionalDate(el *etree.Element, key string, t *time.Time) {
	if t != nil {
		el.CreateAttr(key, FormatDate(*t))
	}
}
