package model

// ChatResult is the structured response of a processed query. Matches keep
// their retrieved order, graph facts keep their expansion order; both
// slices are empty but non-nil when there is nothing to report.
type ChatResult struct {
	Answer     string         `json:"answer"`
	Matches    []*VectorMatch `json:"matches"`
	GraphFacts []*GraphFact   `json:"graph_facts"`
}
