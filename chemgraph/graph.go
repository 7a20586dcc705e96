package chemgraph

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	mmff "github.com/rmera/gommff"
	"github.com/rmera/gommff/geo"
)

// Topology is the bond graph of a molecule. The atoms are the nodes, and their
// IDs are the atom indexes.
type Topology struct {
	g      *simple.UndirectedGraph
	natoms int
}

// FromBonds builds a Topology with natoms atoms and the given bonds, where each
// bond is a pair of atom indexes.
func FromBonds(natoms int, bonds [][2]int) (*Topology, error) {
	g := simple.NewUndirectedGraph()
	for i := 0; i < natoms; i++ {
		g.AddNode(simple.Node(i))
	}
	for n, b := range bonds {
		if b[0] < 0 || b[1] < 0 || b[0] >= natoms || b[1] >= natoms {
			return nil, fmt.Errorf("chemgraph: bond %d (%d-%d) out of range for %d atoms", n, b[0], b[1], natoms)
		}
		if b[0] == b[1] {
			return nil, fmt.Errorf("chemgraph: bond %d joins atom %d with itself", n, b[0])
		}
		g.SetEdge(simple.Edge{F: simple.Node(b[0]), T: simple.Node(b[1])})
	}
	return &Topology{g: g, natoms: natoms}, nil
}

// FromForceField builds a Topology from the bond-stretching terms of a force field.
func FromForceField[R geo.Real](ff *mmff.ForceField[R], natoms int) (*Topology, error) {
	bonds := make([][2]int, 0, len(ff.Bonds))
	for _, b := range ff.Bonds {
		bonds = append(bonds, [2]int{b.I, b.J})
	}
	return FromBonds(natoms, bonds)
}

// Len returns the number of atoms.
func (T *Topology) Len() int { return T.natoms }

// Graph returns the underlying gonum graph.
func (T *Topology) Graph() graph.Undirected { return T.g }

// Bonded returns true if atoms i and j are bonded.
func (T *Topology) Bonded(i, j int) bool {
	return T.g.HasEdgeBetween(int64(i), int64(j))
}

// Neighbors returns the indexes of the atoms bonded to i, in increasing order.
func (T *Topology) Neighbors(i int) []int {
	nodes := graph.NodesOf(T.g.From(int64(i)))
	ret := make([]int, 0, len(nodes))
	for _, n := range nodes {
		ret = append(ret, int(n.ID()))
	}
	sort.Ints(ret)
	return ret
}

// notThrough returns an edge filter that rejects the j-k bond.
func notThrough(j, k int) func(graph.Edge) bool {
	a, b := int64(j), int64(k)
	return func(e graph.Edge) bool {
		f, t := e.From().ID(), e.To().ID()
		return !((f == a && t == b) || (f == b && t == a))
	}
}

// Rotatable returns true if j and k are bonded, and the bond is not part of a
// ring, i.e. removing it splits the molecule in two.
func (T *Topology) Rotatable(j, k int) bool {
	if !T.Bonded(j, k) {
		return false
	}
	bf := traverse.BreadthFirst{Traverse: notThrough(j, k)}
	found := bf.Walk(T.g, simple.Node(k), func(n graph.Node, _ int) bool {
		return n.ID() == int64(j)
	})
	return found == nil
}

// Side returns the atoms that can be reached from k without crossing the j-k bond,
// including k, in increasing order. For a rotatable bond, those are
// the atoms that move together with k when the bond rotates.
// It returns nil if the j-k bond is not rotatable.
func (T *Topology) Side(j, k int) []int {
	if !T.Rotatable(j, k) {
		return nil
	}
	ret := make([]int, 0)
	bf := traverse.BreadthFirst{
		Traverse: notThrough(j, k),
		Visit: func(n graph.Node) {
			ret = append(ret, int(n.ID()))
		},
	}
	bf.Walk(T.g, simple.Node(k), nil)
	sort.Ints(ret)
	return ret
}

// RotatableBonds returns the central bonds of the torsions that are rotatable and
// not terminal (both atoms have other neighbors). Every bond appears once, as a
// pair {j, k} oriented so that the side of k is not larger than the side of j.
func RotatableBonds[R geo.Real](T *Topology, torsions []mmff.Torsion[R]) [][2]int {
	seen := make(map[[2]int]bool)
	ret := make([][2]int, 0)
	for _, t := range torsions {
		j, k := t.J, t.K
		if j > k {
			j, k = k, j
		}
		if seen[[2]int{j, k}] {
			continue
		}
		seen[[2]int{j, k}] = true
		if len(T.Neighbors(j)) < 2 || len(T.Neighbors(k)) < 2 || !T.Rotatable(j, k) {
			continue
		}
		if len(T.Side(j, k)) > T.natoms/2 {
			j, k = k, j
		}
		ret = append(ret, [2]int{j, k})
	}
	return ret
}
