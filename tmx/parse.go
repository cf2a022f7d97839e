package tmx

import (
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// XML parsing for TMX 1.4b. Structural layout follows the DTD; unexpected
// structural children are reported and skipped so slightly damaged memories
// remain loadable, while unknown tags inside inline content are hard errors -
// guessing at segment markup would corrupt the very data the format exists
// to preserve.

// ParseDocument walks the etree DOM and constructs the typed document.
func ParseDocument(doc *etree.Document, log *zap.Logger) (*Tmx, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "tmx" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}
	if version := root.SelectAttrValue("version", ""); version != "1.4" {
		log.Warn("Unexpected tmx version, proceeding anyway", zap.String("version", version))
	}

	t := &Tmx{}
	var haveHeader bool
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "header":
			header, err := ParseHeader(child, log)
			if err != nil {
				return nil, fmt.Errorf("header: %w", err)
			}
			t.Header = header
			haveHeader = true
		case "body":
			for _, el := range child.ChildElements() {
				if el.Tag != "tu" {
					log.Warn("Unexpected tag in body, ignoring", zap.String("tag", el.Tag))
					continue
				}
				tu, err := ParseTu(el, log)
				if err != nil {
					return nil, fmt.Errorf("tu %d: %w", len(t.Tus)+1, err)
				}
				t.Tus = append(t.Tus, tu)
			}
		default:
			log.Warn("Unexpected tag in tmx, ignoring", zap.String("parent", root.Tag), zap.String("tag", child.Tag))
		}
	}
	if !haveHeader {
		return nil, fmt.Errorf("document has no header element")
	}
	return t, nil
}

// ParseHeader reads a <header> element with its notes, props and udes.
func ParseHeader(el *etree.Element, log *zap.Logger) (Header, error) {
	h := Header{}
	var err error
	if h.CreationTool, err = requiredAttr(el, "creationtool"); err != nil {
		return h, err
	}
	if h.CreationToolVersion, err = requiredAttr(el, "creationtoolversion"); err != nil {
		return h, err
	}
	raw, err := requiredAttr(el, "segtype")
	if err != nil {
		return h, err
	}
	if h.Segtype, err = ParseSegtype(raw); err != nil {
		return h, err
	}
	if h.TMF, err = requiredAttr(el, "o-tmf"); err != nil {
		return h, err
	}
	if h.AdminLang, err = requiredAttr(el, "adminlang"); err != nil {
		return h, err
	}
	if h.SrcLang, err = requiredAttr(el, "srclang"); err != nil {
		return h, err
	}
	if h.DataType, err = requiredAttr(el, "datatype"); err != nil {
		return h, err
	}
	h.Encoding = el.SelectAttrValue("o-encoding", "")
	if h.CreationDate, err = optionalDateAttr(el, "creationdate"); err != nil {
		return h, err
	}
	h.CreationID = el.SelectAttrValue("creationid", "")
	if h.ChangeDate, err = optionalDateAttr(el, "changedate"); err != nil {
		return h, err
	}
	h.ChangeID = el.SelectAttrValue("changeid", "")

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "note":
			h.Notes = append(h.Notes, parseNote(child))
		case "prop":
			prop, err := parseProp(child)
			if err != nil {
				return h, fmt.Errorf("prop: %w", err)
			}
			h.Props = append(h.Props, prop)
		case "ude":
			ude, err := parseUde(child, log)
			if err != nil {
				return h, fmt.Errorf("ude: %w", err)
			}
			h.Udes = append(h.Udes, ude)
		default:
			log.Warn("Unexpected tag in header, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	return h, nil
}

func parseNote(el *etree.Element) Note {
	return Note{
		Text:     el.Text(),
		Lang:     xmlLang(el),
		Encoding: el.SelectAttrValue("o-encoding", ""),
	}
}

func parseProp(el *etree.Element) (Prop, error) {
	typ, err := requiredAttr(el, "type")
	if err != nil {
		return Prop{}, err
	}
	return Prop{
		Text:     el.Text(),
		Type:     typ,
		Lang:     xmlLang(el),
		Encoding: el.SelectAttrValue("o-encoding", ""),
	}, nil
}

func parseUde(el *etree.Element, log *zap.Logger) (Ude, error) {
	name, err := requiredAttr(el, "name")
	if err != nil {
		return Ude{}, err
	}
	ude := Ude{
		Name: name,
		Base: el.SelectAttrValue("base", ""),
	}
	for _, child := range el.ChildElements() {
		if child.Tag != "map" {
			log.Warn("Unexpected tag in ude, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
			continue
		}
		m, err := parseMap(child)
		if err != nil {
			return ude, fmt.Errorf("map: %w", err)
		}
		ude.Maps = append(ude.Maps, m)
	}
	return ude, nil
}

func parseMap(el *etree.Element) (Map, error) {
	unicode, err := requiredAttr(el, "unicode")
	if err != nil {
		return Map{}, err
	}
	return Map{
		Unicode: unicode,
		Code:    el.SelectAttrValue("code", ""),
		Ent:     el.SelectAttrValue("ent", ""),
		Subst:   el.SelectAttrValue("subst", ""),
	}, nil
}

// ParseTu reads a <tu> element with all its variants.
func ParseTu(el *etree.Element, log *zap.Logger) (Tu, error) {
	tu := Tu{
		TUID:                el.SelectAttrValue("tuid", ""),
		Encoding:            el.SelectAttrValue("o-encoding", ""),
		DataType:            el.SelectAttrValue("datatype", ""),
		CreationTool:        el.SelectAttrValue("creationtool", ""),
		CreationToolVersion: el.SelectAttrValue("creationtoolversion", ""),
		CreationID:          el.SelectAttrValue("creationid", ""),
		ChangeID:            el.SelectAttrValue("changeid", ""),
		TMF:                 el.SelectAttrValue("o-tmf", ""),
		SrcLang:             el.SelectAttrValue("srclang", ""),
	}
	var err error
	if tu.UsageCount, err = optionalIntAttr(el, "usagecount"); err != nil {
		return tu, err
	}
	if tu.LastUsageDate, err = optionalDateAttr(el, "lastusagedate"); err != nil {
		return tu, err
	}
	if tu.CreationDate, err = optionalDateAttr(el, "creationdate"); err != nil {
		return tu, err
	}
	if tu.ChangeDate, err = optionalDateAttr(el, "changedate"); err != nil {
		return tu, err
	}
	if raw, ok := attrString(el, "segtype"); ok {
		if tu.Segtype, err = ParseSegtype(raw); err != nil {
			return tu, err
		}
	}

	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "note":
			tu.Notes = append(tu.Notes, parseNote(child))
		case "prop":
			prop, err := parseProp(child)
			if err != nil {
				return tu, fmt.Errorf("prop: %w", err)
			}
			tu.Props = append(tu.Props, prop)
		case "tuv":
			tuv, err := ParseTuv(child, log)
			if err != nil {
				return tu, fmt.Errorf("tuv %d: %w", len(tu.Tuvs)+1, err)
			}
			tu.Tuvs = append(tu.Tuvs, tuv)
		default:
			log.Warn("Unexpected tag in tu, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	return tu, nil
}

// ParseTuv reads a <tuv> element and the segment inside its <seg> child.
func ParseTuv(el *etree.Element, log *zap.Logger) (Tuv, error) {
	tuv := Tuv{
		Lang:                xmlLang(el),
		Encoding:            el.SelectAttrValue("o-encoding", ""),
		DataType:            el.SelectAttrValue("datatype", ""),
		CreationTool:        el.SelectAttrValue("creationtool", ""),
		CreationToolVersion: el.SelectAttrValue("creationtoolversion", ""),
		CreationID:          el.SelectAttrValue("creationid", ""),
		ChangeID:            el.SelectAttrValue("changeid", ""),
		TMF:                 el.SelectAttrValue("o-tmf", ""),
	}
	if tuv.Lang == "" {
		return tuv, &MissingAttributeError{Attr: "xml:lang", Tag: "tuv"}
	}
	var err error
	if tuv.UsageCount, err = optionalIntAttr(el, "usagecount"); err != nil {
		return tuv, err
	}
	if tuv.LastUsageDate, err = optionalDateAttr(el, "lastusagedate"); err != nil {
		return tuv, err
	}
	if tuv.CreationDate, err = optionalDateAttr(el, "creationdate"); err != nil {
		return tuv, err
	}
	if tuv.ChangeDate, err = optionalDateAttr(el, "changedate"); err != nil {
		return tuv, err
	}

	var haveSeg bool
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "note":
			tuv.Notes = append(tuv.Notes, parseNote(child))
		case "prop":
			prop, err := parseProp(child)
			if err != nil {
				return tuv, fmt.Errorf("prop: %w", err)
			}
			tuv.Props = append(tuv.Props, prop)
		case "seg":
			if tuv.Segment, err = ParseSegment(child); err != nil {
				return tuv, fmt.Errorf("seg: %w", err)
			}
			haveSeg = true
		default:
			log.Warn("Unexpected tag in tuv, ignoring", zap.String("parent", el.Tag), zap.String("tag", child.Tag))
		}
	}
	if !haveSeg {
		return tuv, fmt.Errorf("tuv is missing its seg element")
	}
	return tuv, nil
}

// ParseSegment reads the mixed text/element content of a <seg> (or of any
// inline element) into an ordered node sequence. Whitespace-only runs are
// kept - in translated text whitespace is meaning-bearing - while empty runs
// are dropped. Adjacent text runs are never merged; each run maps to exactly
// one node at its natural text/tail boundary.
func ParseSegment(el *etree.Element) ([]Node, error) {
	return parseInlineContent(el, ruleSegment)
}

func parseInlineContent(el *etree.Element, rule contentRule) ([]Node, error) {
	var nodes []Node
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.CharData:
			if t.Data == "" {
				continue
			}
			nodes = append(nodes, TextNode(t.Data))
		case *etree.Element:
			kind, ok := kindForTag(t.Tag)
			if !ok {
				return nil, &UnknownTagError{Tag: t.Tag, Parent: el.Tag}
			}
			if !rule.allows(kind) {
				return nil, &DisallowedContentError{Kind: kind, Context: el.Tag}
			}
			node, err := parseInlineElement(t, kind)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func kindForTag(tag string) (NodeKind, bool) {
	switch k := NodeKind(tag); k {
	case NodeBpt, NodeEpt, NodeIt, NodePh, NodeHi, NodeSub, NodeUt:
		return k, true
	}
	return "", false
}

func parseInlineElement(el *etree.Element, kind NodeKind) (Node, error) {
	node := Node{Kind: kind}
	var err error
	switch kind {
	case NodeBpt:
		i, err := requiredIntAttr(el, "i")
		if err != nil {
			return node, err
		}
		node.I = &i
		if node.X, err = optionalIntAttr(el, "x"); err != nil {
			return node, err
		}
		node.Type = el.SelectAttrValue("type", "")
	case NodeEpt:
		i, err := requiredIntAttr(el, "i")
		if err != nil {
			return node, err
		}
		node.I = &i
	case NodeIt:
		raw, err := requiredAttr(el, "pos")
		if err != nil {
			return node, err
		}
		if node.Pos, err = ParsePos(raw); err != nil {
			return node, err
		}
		if node.X, err = optionalIntAttr(el, "x"); err != nil {
			return node, err
		}
		node.Type = el.SelectAttrValue("type", "")
	case NodePh:
		if node.X, err = optionalIntAttr(el, "x"); err != nil {
			return node, err
		}
		node.Type = el.SelectAttrValue("type", "")
		if raw, ok := attrString(el, "assoc"); ok {
			if node.Assoc, err = ParseAssoc(raw); err != nil {
				return node, err
			}
		}
	case NodeHi:
		if node.X, err = optionalIntAttr(el, "x"); err != nil {
			return node, err
		}
		node.Type = el.SelectAttrValue("type", "")
	case NodeSub:
		node.Type = el.SelectAttrValue("type", "")
		node.DataType = el.SelectAttrValue("datatype", "")
	case NodeUt:
		if node.X, err = optionalIntAttr(el, "x"); err != nil {
			return node, err
		}
	}
	if node.Content, err = parseInlineContent(el, ruleFor(kind)); err != nil {
		return node, err
	}
	return node, nil
}
