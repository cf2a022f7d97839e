package tmx

import "strings"

// Inline content model for <seg> and the elements nested inside it. A segment
// is an ordered node sequence; order encodes document reading order and must
// be preserved exactly, since it pairs trailing text with the correct
// preceding element on the way back to XML.

// NodeKind discriminates inline node variants. For element nodes the value is
// the TMX tag name.
type NodeKind string

const (
	NodeText NodeKind = "text"
	NodeBpt  NodeKind = "bpt"
	NodeEpt  NodeKind = "ept"
	NodeIt   NodeKind = "it"
	NodePh   NodeKind = "ph"
	NodeHi   NodeKind = "hi"
	NodeSub  NodeKind = "sub"
	// NodeUt is deprecated in TMX 1.4b and is kept only so old files keep
	// round-tripping. It behaves like ph.
	NodeUt NodeKind = "ut"
)

// Node is one item of mixed inline content: either a run of character data or
// one of the seven inline elements, each owning its own ordered content
// sequence. Optional integer attributes are pointers so that absent stays
// distinct from zero.
type Node struct {
	Kind NodeKind

	Text string // NodeText only

	I        *int   // bpt, ept: pairing key, unique per segment
	X        *int   // cross-variant matching hint, no uniqueness constraint
	Type     string // kind of data the element represents, "" when absent
	DataType string // sub only
	Pos      Pos    // it only, required
	Assoc    Assoc  // ph only, "" when absent

	Content []Node // element nodes only
}

// TextNode returns a plain character data node.
func TextNode(text string) Node {
	return Node{Kind: NodeText, Text: text}
}

// PlainText flattens a node sequence into its character data, dropping all
// code markup. Sub-flow text is skipped: it belongs to the codes, not to the
// main flow of the segment.
func PlainText(nodes []Node) string {
	var b strings.Builder
	appendPlain(&b, nodes)
	return b.String()
}

func appendPlain(b *strings.Builder, nodes []Node) {
	for i := range nodes {
		switch nodes[i].Kind {
		case NodeText:
			b.WriteString(nodes[i].Text)
		case NodeHi:
			appendPlain(b, nodes[i].Content)
		}
	}
}

// contentRule captures which node kinds TMX allows inside a given context:
// codes (bpt/ept/it/ph/ut) may nest only text and sub, spans (hi/sub) accept
// the regular inline set, and seg itself additionally admits ut.
type contentRule int

const (
	ruleCodes contentRule = iota
	ruleSpans
	ruleSegment
)

func (r contentRule) allows(k NodeKind) bool {
	switch r {
	case ruleCodes:
		return k == NodeText || k == NodeSub
	case ruleSpans:
		switch k {
		case NodeText, NodeBpt, NodeEpt, NodeIt, NodePh, NodeHi:
			return true
		}
		return false
	default:
		return k != NodeSub
	}
}

// ruleFor returns the content rule an element node imposes on its own
// content sequence.
func ruleFor(k NodeKind) contentRule {
	if k == NodeHi || k == NodeSub {
		return ruleSpans
	}
	return ruleCodes
}
