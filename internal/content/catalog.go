package content

import (
	"fmt"
	"sort"
)

// Catalog is the full authored content set for one scenario pack. Lookups
// fail closed: a missing id returns ok=false, never panics.
type Catalog struct {
	stakeholders []StakeholderSeed
	nodes        map[NodeID]Node
	sequences    map[SequenceID]Sequence
	seqOrder     []SequenceID // Lexicographic, fixes scheduler iteration order.
	schedule     map[SequenceID]TriggerPoint
}

// NewCatalog assembles a catalog and validates cross-references: every
// sequence node must exist, the two trigger flags must not both be set, and
// scheduled ids must name real sequences.
func NewCatalog(seeds []StakeholderSeed, nodes []Node, sequences []Sequence, schedule map[SequenceID]TriggerPoint) (*Catalog, error) {
	c := &Catalog{
		stakeholders: seeds,
		nodes:        make(map[NodeID]Node, len(nodes)),
		sequences:    make(map[SequenceID]Sequence, len(sequences)),
		schedule:     make(map[SequenceID]TriggerPoint, len(schedule)),
	}

	for _, n := range nodes {
		if _, dup := c.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node %q", n.ID)
		}
		c.nodes[n.ID] = n
	}

	for _, s := range sequences {
		if _, dup := c.sequences[s.ID]; dup {
			return nil, fmt.Errorf("duplicate sequence %q", s.ID)
		}
		if s.Inevitable && s.Contingent {
			return nil, fmt.Errorf("sequence %q is both inevitable and contingent", s.ID)
		}
		if len(s.Nodes) == 0 {
			return nil, fmt.Errorf("sequence %q has no nodes", s.ID)
		}
		for _, nid := range s.Nodes {
			if _, ok := c.nodes[nid]; !ok {
				return nil, fmt.Errorf("sequence %q references unknown node %q", s.ID, nid)
			}
		}
		c.sequences[s.ID] = s
		c.seqOrder = append(c.seqOrder, s.ID)
	}
	sort.Slice(c.seqOrder, func(i, j int) bool { return c.seqOrder[i] < c.seqOrder[j] })

	for sid, tp := range schedule {
		if _, ok := c.sequences[sid]; !ok {
			return nil, fmt.Errorf("schedule references unknown sequence %q", sid)
		}
		if tp.Day < 1 || tp.Slot >= SlotCount {
			return nil, fmt.Errorf("schedule for %q has invalid trigger {day %d, slot %d}", sid, tp.Day, tp.Slot)
		}
		c.schedule[sid] = tp
	}

	return c, nil
}

// Stakeholders returns the authored stakeholder seeds in authored order.
func (c *Catalog) Stakeholders() []StakeholderSeed {
	return c.stakeholders
}

// Node looks up a scenario node by id.
func (c *Catalog) Node(id NodeID) (Node, bool) {
	n, ok := c.nodes[id]
	return n, ok
}

// Sequence looks up a meeting sequence by id.
func (c *Catalog) Sequence(id SequenceID) (Sequence, bool) {
	s, ok := c.sequences[id]
	return s, ok
}

// SequenceIDs returns all sequence ids in lexicographic order. The scheduler
// depends on this order to break authoring ties deterministically.
func (c *Catalog) SequenceIDs() []SequenceID {
	return c.seqOrder
}

// Schedule returns a copy of the initial trigger schedule. The copy becomes
// mutable session state; the catalog's own map never changes.
func (c *Catalog) Schedule() map[SequenceID]TriggerPoint {
	out := make(map[SequenceID]TriggerPoint, len(c.schedule))
	for k, v := range c.schedule {
		out[k] = v
	}
	return out
}

// ProactiveSequenceFor returns the first proactive sequence authored for the
// given stakeholder role that is not in completed, in id order. A role may
// carry several proactive sequences; each becomes reachable once the earlier
// ones complete.
func (c *Catalog) ProactiveSequenceFor(role string, completed map[SequenceID]bool) (Sequence, bool) {
	for _, sid := range c.seqOrder {
		if completed[sid] {
			continue
		}
		s := c.sequences[sid]
		if !s.Inevitable && !s.Contingent && s.StakeholderRole == role {
			return s, true
		}
	}
	return Sequence{}, false
}
