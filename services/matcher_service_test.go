package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(srv *httptest.Server) *MatcherService {
	return &MatcherService{
		client:  &http.Client{Timeout: 5 * time.Second},
		token:   "test-token",
		model:   "test-model",
		baseURL: srv.URL,
	}
}

func hfResponse(generated string) []map[string]string {
	return []map[string]string{{"generated_text": generated}}
}

func TestMatchRecommendations(t *testing.T) {
	recs := []string{"eat more fish", "reduce sugar"}
	foods := []string{"salmon", "dates"}

	t.Run("parses model output", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "true", r.Header.Get("x-wait-for-model"))

			out := `{"analysis": "salmon covers fish", "matched_items": ["eat more fish"], "unmatched_items": ["reduce sugar"], "score": 55}`
			json.NewEncoder(w).Encode(hfResponse(out))
		}))
		defer srv.Close()

		result, err := newTestMatcher(srv).MatchRecommendations(context.Background(), recs, foods)
		require.NoError(t, err)
		assert.Equal(t, 55.0, result.Score)
		assert.Equal(t, []string{"eat more fish"}, result.MatchedItems)
		assert.Equal(t, []string{"reduce sugar"}, result.UnmatchedItems)
	})

	t.Run("json wrapped in prose", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			out := "Here is my answer:\n```json\n{\"analysis\": \"ok\", \"matched_items\": [], \"unmatched_items\": [], \"score\": 30}\n```"
			json.NewEncoder(w).Encode(hfResponse(out))
		}))
		defer srv.Close()

		result, err := newTestMatcher(srv).MatchRecommendations(context.Background(), recs, foods)
		require.NoError(t, err)
		assert.Equal(t, 30.0, result.Score)
	})

	t.Run("api error surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"error": "model overloaded"})
		}))
		defer srv.Close()

		_, err := newTestMatcher(srv).MatchRecommendations(context.Background(), recs, foods)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model overloaded")
	})

	t.Run("empty generation is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(hfResponse("   "))
		}))
		defer srv.Close()

		_, err := newTestMatcher(srv).MatchRecommendations(context.Background(), recs, foods)
		require.Error(t, err)
	})

	t.Run("missing token is an error", func(t *testing.T) {
		m := &MatcherService{client: http.DefaultClient}
		_, err := m.MatchRecommendations(context.Background(), recs, foods)
		require.Error(t, err)
	})
}

func TestParseMatchResult(t *testing.T) {
	t.Run("clamps score to range", func(t *testing.T) {
		high, err := parseMatchResult(`{"analysis": "a", "score": 140}`)
		require.NoError(t, err)
		assert.Equal(t, 100.0, high.Score)

		low, err := parseMatchResult(`{"analysis": "a", "score": -10}`)
		require.NoError(t, err)
		assert.Equal(t, 0.0, low.Score)
	})

	t.Run("no json object", func(t *testing.T) {
		_, err := parseMatchResult("the client did great")
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parseMatchResult(`{"analysis": "a", "score": }`)
		require.Error(t, err)
	})
}
