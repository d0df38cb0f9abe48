package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/siherrmann/tripgraph/helper"
	"github.com/siherrmann/tripgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbedder(t *testing.T) {
	t.Run("Unknown provider is rejected", func(t *testing.T) {
		config := &model.ServiceConfig{Embedding: model.EmbeddingProvider("carrier-pigeon")}
		_, err := NewEmbedder(config, helper.NewTestLogger())
		assert.Error(t, err, "Expected error for an unknown embedding provider")
		assert.Contains(t, err.Error(), "unknown embedding provider", "Expected specific error message")
	})

	t.Run("API provider builds an API embedder", func(t *testing.T) {
		config := &model.ServiceConfig{
			Embedding:      model.EmbeddingProviderAPI,
			EmbeddingModel: "BAAI/bge-m3",
			EmbeddingURL:   "http://localhost:9999",
			EmbeddingDim:   1024,
		}
		embedder, err := NewEmbedder(config, helper.NewTestLogger())
		assert.NoError(t, err, "Expected NewEmbedder to not return an error")
		require.NotNil(t, embedder)
		assert.Equal(t, 1024, embedder.Dimension(), "Expected the configured dimension")
		assert.IsType(t, &APIEmbedder{}, embedder, "Expected an API embedder")
	})
}

func TestAPIEmbedderEmbed(t *testing.T) {
	t.Run("Valid embedding response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/embeddings", r.URL.Path, "Expected the versioned embeddings path")
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"), "Expected the bearer token")

			var request embeddingRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.Equal(t, []string{"best food in Hanoi"}, request.Input, "Expected the query text as input")

			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"embedding": []float32{0.1, 0.2, 0.3}, "index": 0},
				},
			})
		}))
		defer server.Close()

		embedder := NewAPIEmbedder(server.URL, "test-key", "BAAI/bge-m3", 3, helper.NewTestLogger())
		embedding, err := embedder.Embed(context.Background(), "best food in Hanoi")
		assert.NoError(t, err, "Expected Embed to not return an error")
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding, "Expected the embedding from the response")
	})

	t.Run("Dimension mismatch is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"embedding": []float32{0.1, 0.2}, "index": 0},
				},
			})
		}))
		defer server.Close()

		embedder := NewAPIEmbedder(server.URL, "", "BAAI/bge-m3", 3, helper.NewTestLogger())
		_, err := embedder.Embed(context.Background(), "anything")
		assert.Error(t, err, "Expected error for a dimension mismatch")
		assert.Contains(t, err.Error(), "expected 3", "Expected the error to name the configured dimension")
	})

	t.Run("Server error surfaces after retries", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		embedder := NewAPIEmbedder(server.URL, "", "BAAI/bge-m3", 3, helper.NewTestLogger())
		_, err := embedder.Embed(context.Background(), "anything")
		assert.Error(t, err, "Expected error after exhausting retries")
		assert.Contains(t, err.Error(), "status 500", "Expected the status code in the error")
		assert.Equal(t, 3, calls, "Expected three attempts")
	})

	t.Run("Empty response data is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
		}))
		defer server.Close()

		embedder := NewAPIEmbedder(server.URL, "", "BAAI/bge-m3", 3, helper.NewTestLogger())
		_, err := embedder.Embed(context.Background(), "anything")
		assert.Error(t, err, "Expected error for an empty data array")
		assert.Contains(t, err.Error(), "no embedding returned", "Expected specific error message")
	})
}

func TestAPIEmbedderURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"Plain host", "http://localhost:8080", "http://localhost:8080/v1/embeddings"},
		{"Trailing slash", "http://localhost:8080/", "http://localhost:8080/v1/embeddings"},
		{"Versioned base", "http://localhost:8080/v1", "http://localhost:8080/v1/embeddings"},
		{"Full path", "http://localhost:8080/v1/embeddings", "http://localhost:8080/v1/embeddings"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			embedder := NewAPIEmbedder(test.baseURL, "", "m", 3, helper.NewTestLogger())
			assert.Equal(t, test.want, embedder.embeddingURL(), "Expected the normalized embeddings URL")
		})
	}
}
