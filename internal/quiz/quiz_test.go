package quiz

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTrial = `{"question":"Which state besieged the master at Kuang?","options":["Wei","Song","Chen","Lu"],"answerIndex":0,"analysis":"Kuang lay in Wei.","quote":"Analects 9.5"}`

func TestParse(t *testing.T) {
	card, err := Parse(validTrial)
	require.NoError(t, err)
	assert.True(t, card.Generated)
	assert.True(t, strings.HasPrefix(card.ID, "gen-"))
	assert.Equal(t, "Wei", card.Options[0])
	assert.True(t, card.Correct(0))
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":      `{"question":`,
		"three options": `{"question":"q","options":["a","b","c"],"answerIndex":0,"analysis":"","quote":""}`,
		"answer range":  `{"question":"q","options":["a","b","c","d"],"answerIndex":4,"analysis":"","quote":""}`,
		"empty option":  `{"question":"q","options":["a","","c","d"],"answerIndex":1,"analysis":"","quote":""}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(raw)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}

	_, err := Parse("  ")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func chatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), "unexpected path %s", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "response_format")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   "test",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIGenerator(t *testing.T) {
	srv := chatServer(t, http.StatusOK, validTrial)
	defer srv.Close()

	g := NewOpenAIGenerator(OpenAIConfig{APIKey: "test", Model: "test", BaseURL: srv.URL + "/v1/", Timeout: 2 * time.Second})
	card, err := g.Generate(context.Background(), "Wei")
	require.NoError(t, err)
	assert.True(t, card.Generated)
	assert.Equal(t, 0, card.AnswerIndex)
}

func TestOpenAIGeneratorFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := chatServer(t, http.StatusInternalServerError, "")
		defer srv.Close()
		g := NewOpenAIGenerator(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1/"})
		_, err := g.Generate(context.Background(), "Chen")
		assert.Error(t, err)
	})
	t.Run("schema mismatch", func(t *testing.T) {
		srv := chatServer(t, http.StatusOK, `{"question":"q","options":["a"],"answerIndex":0,"analysis":"","quote":""}`)
		defer srv.Close()
		g := NewOpenAIGenerator(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1/"})
		_, err := g.Generate(context.Background(), "Chen")
		assert.ErrorIs(t, err, ErrMalformed)
	})
}
