package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newGeminiServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialTest(t *testing.T, srv *httptest.Server) Model {
	t.Helper()
	m, err := GeminiDialer(GeminiConfig{BaseURL: srv.URL, HTTPClient: srv.Client()})(context.Background(), "test-key")
	require.NoError(t, err)
	return m
}

func TestGeminiDialerNeedsKey(t *testing.T) {
	_, err := GeminiDialer(GeminiConfig{})(context.Background(), "")
	assert.ErrorIs(t, err, ErrAPIKey)
}

func TestGeminiTextReply(t *testing.T) {
	var seen map[string]any
	srv := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"text":"Howdy, "},{"text":"partner"}]}}]}`, &seen)

	reply, err := dialTest(t, srv).Send(context.Background(), Request{
		System:  "be nice",
		History: []Turn{{Role: RoleUser, Text: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Howdy, partner", reply.Text)
	assert.Empty(t, reply.Calls)
	assert.IsType(t, &genai.Content{}, reply.Raw)

	assert.Contains(t, seen, "systemInstruction")
	assert.Contains(t, seen, "tools")
	raw, err := json.Marshal(seen["tools"])
	require.NoError(t, err)
	assert.Contains(t, string(raw), ProductSearchTool)
}

func TestGeminiFunctionCall(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"role":"model","parts":[{"functionCall":{"name":"productSearch","args":{"query":"boots"}}}]}}]}`, nil)

	reply, err := dialTest(t, srv).Send(context.Background(), Request{
		History: []Turn{{Role: RoleUser, Text: "boots?"}},
	})
	require.NoError(t, err)
	require.Len(t, reply.Calls, 1)
	assert.Equal(t, ProductSearchTool, reply.Calls[0].Name)
	assert.Equal(t, "boots", reply.Calls[0].Args["query"])
}

func TestGeminiRejectedKey(t *testing.T) {
	srv := newGeminiServer(t, http.StatusBadRequest,
		`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`, nil)

	_, err := dialTest(t, srv).Send(context.Background(), Request{
		History: []Turn{{Role: RoleUser, Text: "hi"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPIKey)
}

func TestGeminiServerError(t *testing.T) {
	srv := newGeminiServer(t, http.StatusInternalServerError,
		`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`, nil)

	_, err := dialTest(t, srv).Send(context.Background(), Request{
		History: []Turn{{Role: RoleUser, Text: "hi"}},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAPIKey)
}

func TestToContent(t *testing.T) {
	raw := genai.NewContentFromText("cached", genai.RoleModel)
	assert.Same(t, raw, toContent(Turn{Role: RoleModel, Text: "ignored", Raw: raw}))

	resp := toContent(Turn{Role: RoleUser, Response: &FunctionResponse{Name: ProductSearchTool, Response: map[string]any{"result": "[]"}}})
	require.Len(t, resp.Parts, 1)
	assert.Equal(t, genai.RoleUser, resp.Role)
	require.NotNil(t, resp.Parts[0].FunctionResponse)
	assert.Equal(t, ProductSearchTool, resp.Parts[0].FunctionResponse.Name)

	text := toContent(Turn{Role: RoleModel, Text: "hi"})
	assert.Equal(t, "hi", text.Parts[0].Text)
}
