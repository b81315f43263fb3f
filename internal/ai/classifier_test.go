package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": answer}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestClassify_ParsesJSONAnswer(t *testing.T) {
	srv := newChatServer(t, `{"category":"Finance","tags":["budget","q3"],"summary":"Q3 budget."}`)
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Model: "test"})
	result, err := client.Classify(context.Background(), "budget.pdf", "numbers", []string{"Finance", "HR"})
	require.NoError(t, err)
	assert.Equal(t, "Finance", result.Category)
	assert.Equal(t, []string{"budget", "q3"}, result.Tags)
	assert.Equal(t, "Q3 budget.", result.Summary)
}

func TestClassify_StripsCodeFences(t *testing.T) {
	srv := newChatServer(t, "```json\n{\"category\":\"HR\",\"tags\":[],\"summary\":\"s\"}\n```")
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Model: "test"})
	result, err := client.Classify(context.Background(), "doc.txt", "text", nil)
	require.NoError(t, err)
	assert.Equal(t, "HR", result.Category)
}

func TestTranslate(t *testing.T) {
	srv := newChatServer(t, "  Hola mundo  ")
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Model: "test"})
	out, err := client.Translate(context.Background(), "Hello world", "Spanish")
	require.NoError(t, err)
	assert.Equal(t, "Hola mundo", out)

	_, err = client.Translate(context.Background(), "   ", "Spanish")
	assert.Error(t, err)
}

func TestEmbed_EmptyInput(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	_, err := client.Embed(context.Background(), "   ")
	assert.Error(t, err)
}
