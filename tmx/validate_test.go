package tmx

import (
	"errors"
	"testing"
)

func TestValidateSegmentPaired(t *testing.T) {
	for _, tc := range []struct {
		name  string
		nodes []Node
	}{
		{"empty", nil},
		{"text only", []Node{TextNode("plain")}},
		{"in order", []Node{
			{Kind: NodeBpt, I: intp(1)},
			TextNode("bold"),
			{Kind: NodeEpt, I: intp(1)},
		}},
		{"ept before bpt", []Node{
			{Kind: NodeEpt, I: intp(1)},
			TextNode("middle"),
			{Kind: NodeBpt, I: intp(1)},
		}},
		{"interleaved pairs", []Node{
			{Kind: NodeBpt, I: intp(1)},
			{Kind: NodeBpt, I: intp(2)},
			{Kind: NodeEpt, I: intp(1)},
			{Kind: NodeEpt, I: intp(2)},
		}},
	} {
		if err := ValidateSegment(tc.nodes); err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestValidateSegmentDuplicates(t *testing.T) {
	err := ValidateSegment([]Node{
		{Kind: NodeBpt, I: intp(1)},
		{Kind: NodeEpt, I: intp(1)},
		{Kind: NodeBpt, I: intp(1)},
	})
	var pErr *PairingError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PairingError, got %v", err)
	}
	if pErr.Violation != DuplicateBpt || pErr.I != 1 || pErr.Pos != 2 {
		t.Fatalf("unexpected error detail: %+v", pErr)
	}

	err = ValidateSegment([]Node{
		{Kind: NodeEpt, I: intp(3)},
		{Kind: NodeEpt, I: intp(3)},
	})
	if !errors.As(err, &pErr) || pErr.Violation != DuplicateEpt || pErr.Pos != 1 {
		t.Fatalf("unexpected duplicate ept error: %v", err)
	}
}

func TestValidateSegmentOrphans(t *testing.T) {
	err := ValidateSegment([]Node{
		{Kind: NodeBpt, I: intp(1)},
		{Kind: NodeBpt, I: intp(2)},
		{Kind: NodeEpt, I: intp(2)},
	})
	var pErr *PairingError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PairingError, got %v", err)
	}
	if pErr.Violation != OrphanBpt || pErr.I != 1 || pErr.Pos != -1 {
		t.Fatalf("unexpected error detail: %+v", pErr)
	}

	err = ValidateSegment([]Node{{Kind: NodeEpt, I: intp(5)}})
	if !errors.As(err, &pErr) || pErr.Violation != OrphanEpt || pErr.I != 5 {
		t.Fatalf("unexpected orphan ept error: %v", err)
	}
}

func TestValidateSegmentHiShareScope(t *testing.T) {
	// a pair split across a hi boundary is still a pair
	err := ValidateSegment([]Node{
		{Kind: NodeHi, Content: []Node{{Kind: NodeBpt, I: intp(1)}}},
		{Kind: NodeEpt, I: intp(1)},
	})
	if err != nil {
		t.Fatalf("hi must share the segment scope: %v", err)
	}

	err = ValidateSegment([]Node{
		{Kind: NodeBpt, I: intp(1)},
		{Kind: NodeHi, Content: []Node{{Kind: NodeBpt, I: intp(1)}}},
	})
	var pErr *PairingError
	if !errors.As(err, &pErr) || pErr.Violation != DuplicateBpt {
		t.Fatalf("duplicate inside hi must be caught: %v", err)
	}
}

func TestValidateSegmentSubIsIndependent(t *testing.T) {
	// codes inside a sub belong to the sub's own scope and never pair with,
	// or collide with, the enclosing segment's codes
	err := ValidateSegment([]Node{
		{Kind: NodeBpt, I: intp(1)},
		{Kind: NodePh, Content: []Node{
			{Kind: NodeSub, Content: []Node{{Kind: NodeBpt, I: intp(1)}}},
		}},
		{Kind: NodeEpt, I: intp(1)},
	})
	if err != nil {
		t.Fatalf("sub content must not leak into the segment scope: %v", err)
	}
}

func TestValidateSegmentNilIDeferred(t *testing.T) {
	if err := ValidateSegment([]Node{{Kind: NodeBpt}}); err != nil {
		t.Fatalf("nil match id is not a pairing violation: %v", err)
	}
}
