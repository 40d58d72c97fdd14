package noise

import "fmt"

// Store is the node arena for a single build generation. It is write-once:
// the Builder appends nodes while building, and after Finish the arena is
// only ever read. No locks are needed during sampling because nothing
// mutates a published generation.
type Store struct {
	nodes []Node
}

// newStore creates an empty arena for a fresh generation.
func newStore() *Store {
	return &Store{}
}

// allocate appends a node and returns its stable handle.
func (s *Store) allocate(n Node) Handle {
	s.nodes = append(s.nodes, n)
	return Handle(len(s.nodes) - 1)
}

// node returns the node for a handle obtained from this generation. A
// handle from another generation is a programmer error, so an out-of-range
// index panics rather than returning an error.
func (s *Store) node(h Handle) *Node {
	if !s.contains(h) {
		panic(fmt.Sprintf("noise: handle %d outside generation of %d nodes", h, len(s.nodes)))
	}
	return &s.nodes[h]
}

// contains reports whether the handle was allocated by this generation.
func (s *Store) contains(h Handle) bool {
	return h >= 0 && int(h) < len(s.nodes)
}

// len reports how many nodes the generation holds.
func (s *Store) len() int {
	return len(s.nodes)
}
