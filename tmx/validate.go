package tmx

// Segment-level pairing validation for bpt/ept match ids, one left-to-right
// pass. Duplicates are reported at the node where the second occurrence is
// seen; orphans after the walk, in first-seen order, so a given malformed
// segment always yields the same error. Hi spans share the segment's pairing
// scope. Sub flows do not: a sub establishes its own independently paired
// scope, so its codes never count against the enclosing segment.

// ValidateSegment checks that bpt and ept match ids are unique and paired.
func ValidateSegment(nodes []Node) error {
	w := pairWalk{bpts: map[int]bool{}, epts: map[int]bool{}}
	if err := w.walk(nodes); err != nil {
		return err
	}
	for _, id := range w.bptOrder {
		if !w.epts[id] {
			return &PairingError{Violation: OrphanBpt, I: id, Pos: -1}
		}
	}
	for _, id := range w.eptOrder {
		if !w.bpts[id] {
			return &PairingError{Violation: OrphanEpt, I: id, Pos: -1}
		}
	}
	return nil
}

type pairWalk struct {
	bpts, epts         map[int]bool
	bptOrder, eptOrder []int
	pos                int
}

func (w *pairWalk) walk(nodes []Node) error {
	for i := range nodes {
		n := &nodes[i]
		here := w.pos
		w.pos++
		switch n.Kind {
		case NodeBpt:
			if n.I == nil {
				// missing pairing key is the serializer's error to report
				continue
			}
			if w.bpts[*n.I] {
				return &PairingError{Violation: DuplicateBpt, I: *n.I, Pos: here}
			}
			w.bpts[*n.I] = true
			w.bptOrder = append(w.bptOrder, *n.I)
		case NodeEpt:
			if n.I == nil {
				continue
			}
			if w.epts[*n.I] {
				return &PairingError{Violation: DuplicateEpt, I: *n.I, Pos: here}
			}
			w.epts[*n.I] = true
			w.eptOrder = append(w.eptOrder, *n.I)
		case NodeHi:
			if err := w.walk(n.Content); err != nil {
				return err
			}
		}
	}
	return nil
}
