package model

// GraphNode represents an entity node in the visualization graph.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
	Title string `json:"title"`
}

// GraphEdge represents a directed edge between two requested entities.
type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// GraphView is the visualization payload for an explicitly requested set of
// entity ids: nodes for every id that exists and edges for every directly
// connected pair within the set.
type GraphView struct {
	Nodes []*GraphNode `json:"nodes"`
	Edges []*GraphEdge `json:"edges"`
}

// EmptyGraphView returns a view with empty (non-nil) node and edge slices,
// used by the degraded variant and for id sets with no known entities.
func EmptyGraphView() *GraphView {
	return &GraphView{
		Nodes: []*GraphNode{},
		Edges: []*GraphEdge{},
	}
}
