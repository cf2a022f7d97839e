package tmx

import (
	"errors"
	"testing"
	"time"

	"github.com/beevik/etree"
)

func intp(v int) *int { return &v }

func TestSerializeSegmentTextTail(t *testing.T) {
	seg := etree.NewDocument().CreateElement("seg")
	nodes := []Node{
		TextNode("A"),
		{Kind: NodePh, X: intp(1), Content: []Node{TextNode("B")}},
		TextNode("C"),
	}

	if err := SerializeSegment(seg, nodes); err != nil {
		t.Fatalf("SerializeSegment: %v", err)
	}
	if seg.Text() != "A" {
		t.Fatalf("leading text mismatch: %q", seg.Text())
	}
	children := seg.ChildElements()
	if len(children) != 1 || children[0].Tag != "ph" {
		t.Fatalf("unexpected children: %+v", children)
	}
	if children[0].Text() != "B" {
		t.Fatalf("ph text mismatch: %q", children[0].Text())
	}
	if children[0].Tail() != "C" {
		t.Fatalf("ph tail mismatch: %q", children[0].Tail())
	}
	if children[0].SelectAttrValue("x", "") != "1" {
		t.Fatalf("ph x attribute missing")
	}
}

func TestSerializeSegmentMergesAdjacentText(t *testing.T) {
	seg := etree.NewDocument().CreateElement("seg")
	nodes := []Node{TextNode("A"), TextNode("B"), {Kind: NodePh}, TextNode("C"), TextNode("D")}

	if err := SerializeSegment(seg, nodes); err != nil {
		t.Fatalf("SerializeSegment: %v", err)
	}
	if seg.Text() != "AB" {
		t.Fatalf("leading text mismatch: %q", seg.Text())
	}
	if got := seg.ChildElements()[0].Tail(); got != "CD" {
		t.Fatalf("tail mismatch: %q", got)
	}
}

func TestSerializeContentRules(t *testing.T) {
	bpt := Node{Kind: NodeBpt, I: intp(1)}

	seg := etree.NewDocument().CreateElement("seg")
	hi := Node{Kind: NodeHi, Content: []Node{bpt, {Kind: NodeEpt, I: intp(1)}}}
	if err := SerializeSegment(seg, []Node{hi}); err != nil {
		t.Fatalf("hi may contain paired codes: %v", err)
	}

	seg = etree.NewDocument().CreateElement("seg")
	ph := Node{Kind: NodePh, Content: []Node{bpt}}
	err := SerializeSegment(seg, []Node{ph})
	var dcErr *DisallowedContentError
	if !errors.As(err, &dcErr) {
		t.Fatalf("expected DisallowedContentError, got %v", err)
	}
	if dcErr.Kind != NodeBpt || dcErr.Context != "ph" {
		t.Fatalf("unexpected error detail: %+v", dcErr)
	}

	seg = etree.NewDocument().CreateElement("seg")
	err = SerializeSegment(seg, []Node{{Kind: NodeSub}})
	if !errors.As(err, &dcErr) {
		t.Fatalf("sub directly under seg must be rejected, got %v", err)
	}
}

func TestSerializeMissingRequiredAttr(t *testing.T) {
	for _, n := range []Node{
		{Kind: NodeBpt},
		{Kind: NodeEpt},
		{Kind: NodeIt},
	} {
		seg := etree.NewDocument().CreateElement("seg")
		err := SerializeSegment(seg, []Node{n})
		var maErr *MissingAttributeError
		if !errors.As(err, &maErr) {
			t.Fatalf("%s: expected MissingAttributeError, got %v", n.Kind, err)
		}
	}
}

func TestBuildDocumentRejectsUnpairedCodes(t *testing.T) {
	tm := minimalTmx()
	tm.Tus = []Tu{{Tuvs: []Tuv{{
		Lang:    "en",
		Segment: []Node{{Kind: NodeBpt, I: intp(1)}},
	}}}}

	_, err := BuildDocument(tm)
	var pErr *PairingError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PairingError, got %v", err)
	}
	if pErr.Violation != OrphanBpt || pErr.I != 1 {
		t.Fatalf("unexpected error detail: %+v", pErr)
	}
}

func TestBuildDocumentHeaderValidation(t *testing.T) {
	tm := minimalTmx()
	tm.Header.SrcLang = ""
	_, err := BuildDocument(tm)
	var maErr *MissingAttributeError
	if !errors.As(err, &maErr) || maErr.Attr != "srclang" {
		t.Fatalf("expected missing srclang, got %v", err)
	}

	tm = minimalTmx()
	tm.Header.Segtype = "word"
	_, err = BuildDocument(tm)
	var fErr *FormatError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected FormatError for bad segtype, got %v", err)
	}
}

func TestBuildDocumentUdeBase(t *testing.T) {
	tm := minimalTmx()
	tm.Header.Udes = []Ude{{Name: "MacRoman", Maps: []Map{{Unicode: "#xF8FF", Code: "#xF0"}}}}

	_, err := BuildDocument(tm)
	var maErr *MissingAttributeError
	if !errors.As(err, &maErr) || maErr.Attr != "base" {
		t.Fatalf("expected missing base, got %v", err)
	}

	tm.Header.Udes[0].Base = "macintosh"
	if _, err := BuildDocument(tm); err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
}

func TestBuildDocumentShape(t *testing.T) {
	when := time.Date(2023, 5, 12, 9, 30, 11, 0, time.UTC)
	tm := minimalTmx()
	tm.Header.CreationDate = &when
	tm.Tus = []Tu{{
		TUID:       "42",
		UsageCount: intp(7),
		Notes:      []Note{{Text: "reviewed", Lang: "en"}},
		Tuvs: []Tuv{{
			Lang:    "en-US",
			Segment: []Node{TextNode("Hello")},
		}},
	}}

	doc, err := BuildDocument(tm)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	root := doc.Root()
	if root.Tag != "tmx" || root.SelectAttrValue("version", "") != "1.4" {
		t.Fatalf("unexpected root: %+v", root)
	}
	header := root.SelectElement("header")
	if header == nil || header.SelectAttrValue("creationdate", "") != "20230512T093011Z" {
		t.Fatalf("unexpected header: %+v", header)
	}
	body := root.SelectElement("body")
	if body == nil {
		t.Fatalf("body missing")
	}
	tu := body.SelectElement("tu")
	if tu == nil || tu.SelectAttrValue("tuid", "") != "42" || tu.SelectAttrValue("usagecount", "") != "7" {
		t.Fatalf("unexpected tu: %+v", tu)
	}
	note := tu.SelectElement("note")
	if note == nil || note.Text() != "reviewed" || note.SelectAttrValue("xml:lang", "") != "en" {
		t.Fatalf("unexpected note: %+v", note)
	}
	tuv := tu.SelectElement("tuv")
	if tuv == nil || tuv.SelectAttrValue("xml:lang", "") != "en-US" {
		t.Fatalf("unexpected tuv: %+v", tuv)
	}
	seg := tuv.SelectElement("seg")
	if seg == nil || seg.Text() != "Hello" {
		t.Fatalf("unexpected seg: %+v", seg)
	}
}

func minimalTmx() *Tmx {
	return &Tmx{Header: Header{
		CreationTool:        "tmxkit",
		CreationToolVersion: "1.0",
		Segtype:             SegtypeSentence,
		TMF:                 "ttx",
		AdminLang:           "en",
		SrcLang:             "en-US",
		DataType:            "plaintext",
	}}
}
