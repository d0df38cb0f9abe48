package model

import "time"

// TravelEntity represents one travel-domain object (city, attraction, food,
// airline, resort) as stored in the vector index. The same id identifies the
// entity in the graph store.
type TravelEntity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Metadata    Metadata  `json:"metadata,omitempty"`
	Embedding   []float32 `json:"embedding,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Match converts the entity into a VectorMatch with the given score,
// flattening the name/type columns into the match metadata the way the
// index returns them.
func (e *TravelEntity) Match(score float64) *VectorMatch {
	metadata := Metadata{}
	for k, v := range e.Metadata {
		metadata[k] = v
	}
	metadata["name"] = e.Name
	metadata["type"] = e.Type

	return &VectorMatch{
		ID:       e.ID,
		Score:    score,
		Metadata: metadata,
	}
}
