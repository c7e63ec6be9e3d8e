package milp

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Component is one connected component of the bipartite row/column incidence graph.
// A column without incident rows forms a component of its own with no rows.
type Component struct {
	Cols []int
	Rows []int
}

// Components partitions the problem into independent connected components.
// Components are ordered by their smallest column; members are ascending.
// Rows without entries belong to no component.
func Components(p *Problem) []Component {
	g := incidenceGraph(p)

	var comps []Component
	for _, nodes := range topo.ConnectedComponents(g) {
		var comp Component
		for _, n := range nodes {
			if id := int(n.ID()); id < p.NumCols() {
				comp.Cols = append(comp.Cols, id)
			} else {
				comp.Rows = append(comp.Rows, id-p.NumCols())
			}
		}
		slices.Sort(comp.Cols)
		slices.Sort(comp.Rows)
		comps = append(comps, comp)
	}
	slices.SortFunc(comps, func(a, b Component) int { return a.Cols[0] - b.Cols[0] })
	return comps
}

// incidenceGraph has node j for column j and node NumCols+i for row i, with an
// edge for every nonzero entry.
func incidenceGraph(p *Problem) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for j := 0; j < p.NumCols(); j++ {
		g.AddNode(simple.Node(j))
	}
	for i, row := range p.rows {
		rowNode := simple.Node(p.NumCols() + i)
		for _, j := range row.indices {
			g.SetEdge(g.NewEdge(rowNode, simple.Node(j)))
		}
	}
	return g
}
