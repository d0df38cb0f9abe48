package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/siherrmann/tripgraph/helper"
)

// APIEmbedder calls an OpenAI-compatible embeddings endpoint.
type APIEmbedder struct {
	baseURL    string
	apiKey     string
	model      string
	dimension  int
	httpClient *http.Client
	logger     *slog.Logger
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewAPIEmbedder creates a client for an OpenAI-compatible embeddings API.
func NewAPIEmbedder(baseURL string, apiKey string, model string, dimension int, logger *slog.Logger) *APIEmbedder {
	return &APIEmbedder{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		model:     model,
		dimension: dimension,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// embeddingURL appends /v1/embeddings unless the base URL already carries
// the versioned path.
func (e *APIEmbedder) embeddingURL() string {
	if strings.Contains(e.baseURL, "/v1/embeddings") {
		return e.baseURL
	}
	if strings.HasSuffix(e.baseURL, "/v1") {
		return e.baseURL + "/embeddings"
	}
	return e.baseURL + "/v1/embeddings"
}

// Embed requests the embedding for a single text. Transient failures are
// retried with an increasing delay before giving up.
func (e *APIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	jsonData, err := json.Marshal(embeddingRequest{
		Model: e.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, helper.NewError("marshal embedding request", err)
	}

	const maxRetries = 3
	var resp *http.Response
	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.embeddingURL(), bytes.NewReader(jsonData))
		if err != nil {
			return nil, helper.NewError("create embedding request", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if e.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+e.apiKey)
		}

		resp, err = e.httpClient.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			break
		}

		if resp != nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if attempt >= maxRetries {
				return nil, helper.NewError("embedding request", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
			}
			e.logger.Warn("Embedding request failed, retrying", slog.Int("attempt", attempt), slog.Int("status", resp.StatusCode))
		} else {
			if attempt >= maxRetries {
				return nil, helper.NewError("embedding request", err)
			}
			e.logger.Warn("Embedding request failed, retrying", slog.Int("attempt", attempt), slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			return nil, helper.NewError("embedding request", ctx.Err())
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	defer resp.Body.Close()

	var embeddingResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddingResp); err != nil {
		return nil, helper.NewError("decode embedding response", err)
	}
	if len(embeddingResp.Data) == 0 {
		return nil, helper.NewError("embedding response validation", fmt.Errorf("no embedding returned"))
	}

	embedding := embeddingResp.Data[0].Embedding
	if len(embedding) != e.dimension {
		return nil, helper.NewError("embedding validation", fmt.Errorf("API produced %d dimensions, expected %d", len(embedding), e.dimension))
	}

	return embedding, nil
}

// Dimension returns the configured embedding dimension.
func (e *APIEmbedder) Dimension() int {
	return e.dimension
}

// Close is a no-op for the API embedder.
func (e *APIEmbedder) Close() error {
	return nil
}
