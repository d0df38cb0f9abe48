package model

// GraphFact represents a single one-hop relation fetched from the graph
// store, anchored to a vector match id as its source. The relation is
// direction-agnostic at one hop; the target description is truncated to the
// configured character budget before the fact leaves the expander.
type GraphFact struct {
	Source            string   `json:"source"`
	Relation          string   `json:"rel"`
	TargetID          string   `json:"target_id"`
	TargetName        string   `json:"target_name"`
	TargetDescription string   `json:"target_desc"`
	TargetLabels      []string `json:"labels,omitempty"`
}
