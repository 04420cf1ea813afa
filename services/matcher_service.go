package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// MatchResult is what the semantic matcher reports back: which
// recommendation texts the user's logged behavior covered.
type MatchResult struct {
	Analysis       string   `json:"analysis"`
	MatchedItems   []string `json:"matched_items"`
	UnmatchedItems []string `json:"unmatched_items"`
	Score          float64  `json:"score"` // 0-100
}

// SemanticMatcher compares free-text recommendations against free-text
// behavior logs. Implementations may fail (network, quota, bad output);
// the recommendation scorer absorbs every failure into a neutral result
// so a broken matcher can never abort a compliance check.
type SemanticMatcher interface {
	MatchRecommendations(ctx context.Context, recommendations, behaviors []string) (*MatchResult, error)
}

type MatcherService struct {
	client  *http.Client
	token   string
	model   string
	baseURL string
}

func NewMatcherService() *MatcherService {
	model := os.Getenv("HUGGINGFACE_MATCHER_MODEL")
	if model == "" {
		model = "google/flan-t5-large"
	}
	return &MatcherService{
		client:  &http.Client{Timeout: 15 * time.Second},
		token:   os.Getenv("HUGGINGFACE_TOKEN"),
		model:   model,
		baseURL: "https://api-inference.huggingface.co/models",
	}
}

func (m *MatcherService) MatchRecommendations(ctx context.Context, recommendations, behaviors []string) (*MatchResult, error) {
	if m.token == "" {
		return nil, fmt.Errorf("HUGGINGFACE_TOKEN not set")
	}

	var sb bytes.Buffer
	sb.WriteString("Nutritionist recommendations:\n")
	for _, r := range recommendations {
		sb.WriteString("- " + r + "\n")
	}
	sb.WriteString("\nNew foods the client tried:\n")
	for _, b := range behaviors {
		sb.WriteString("- " + b + "\n")
	}
	sb.WriteString("\nDecide which recommendations the tried foods satisfy. " +
		"Answer with JSON only, exactly this shape: " +
		`{"analysis": "...", "matched_items": ["..."], "unmatched_items": ["..."], "score": 0}` +
		" where score is 0-100 compliance confidence.")

	body := map[string]any{
		"inputs": sb.String(),
		"parameters": map[string]any{
			"max_new_tokens": 512,
			"temperature":    0.1,
		},
	}
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		fmt.Sprintf("%s/%s", m.baseURL, m.model),
		bytes.NewReader(b),
	)
	if err != nil {
		return nil, fmt.Errorf("build matcher request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.token)
	req.Header.Set("Content-Type", "application/json")
	// Ensure HF loads cold models instead of returning a "loading" error
	req.Header.Set("x-wait-for-model", "true")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matcher request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read matcher response error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var hfErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBytes, &hfErr) == nil && hfErr.Error != "" {
			return nil, fmt.Errorf("matcher api error (%d): %s", resp.StatusCode, hfErr.Error)
		}
		return nil, fmt.Errorf("matcher api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	var hfOut []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(respBytes, &hfOut); err != nil {
		return nil, fmt.Errorf("decode matcher response error: %w", err)
	}
	if len(hfOut) == 0 || strings.TrimSpace(hfOut[0].GeneratedText) == "" {
		return nil, fmt.Errorf("empty matcher response")
	}

	result, err := parseMatchResult(hfOut[0].GeneratedText)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// parseMatchResult pulls the JSON object out of the generated text.
// Models sometimes wrap the JSON in prose or code fences.
func parseMatchResult(text string) (*MatchResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in matcher output")
	}

	var result MatchResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("malformed matcher JSON: %w", err)
	}

	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	return &result, nil
}
