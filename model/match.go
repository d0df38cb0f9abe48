package model

// VectorMatch represents a single nearest-neighbor hit from the vector index.
// Matches are always handled in descending score order as returned by the
// index; the score is an opaque ordering key and is never recomputed.
type VectorMatch struct {
	ID       string   `json:"id"`
	Score    float64  `json:"score"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Name returns the entity name from the match metadata, if present.
func (m *VectorMatch) Name() string {
	return m.metadataString("name")
}

// Type returns the entity type from the match metadata, if present.
func (m *VectorMatch) Type() string {
	return m.metadataString("type")
}

// City returns the entity city from the match metadata, if present.
func (m *VectorMatch) City() string {
	return m.metadataString("city")
}

func (m *VectorMatch) metadataString(key string) string {
	if m.Metadata == nil {
		return ""
	}
	if v, ok := m.Metadata[key].(string); ok {
		return v
	}
	return ""
}
