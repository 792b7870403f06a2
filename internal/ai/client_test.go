package ai

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskpilot/internal/store"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare object", `{"goal": "g"}`, `{"goal": "g"}`},
		{"fenced in prose", "Here is the plan:\n```json\n{\"goal\": \"g\"}\n```\nDone.", `{"goal": "g"}`},
		{"single quotes repaired", `{'goal': 'g'}`, `{"goal": "g"}`},
		{"no json at all", "I cannot help with that.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.text))
		})
	}
}

func chatServer(t *testing.T, reply string, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if gotBody != nil {
			require.NoError(t, json.Unmarshal(body, gotBody))
		}
		response := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": reply}},
			},
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func TestGeneratePlanExtractsJSON(t *testing.T) {
	var gotBody map[string]any
	server := chatServer(t, "Sure!\n```json\n{\"goal\": \"open notepad\", \"steps\": []}\n```", &gotBody)
	defer server.Close()

	client := NewClient(Config{Type: ProviderOpenAI, Endpoint: server.URL, Model: "test-model"})
	jsonStr, err := client.GeneratePlan("system prompt", "open notepad")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(jsonStr), &decoded))
	assert.Equal(t, "open notepad", decoded["goal"])

	assert.Equal(t, "test-model", gotBody["model"])
	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
}

func TestGeneratePlanSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad api key"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{Type: ProviderOpenAI, Endpoint: server.URL})
	_, err := client.GeneratePlan("s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad api key")
}

func TestCompleteVisionSendsImagePart(t *testing.T) {
	var gotBody map[string]any
	server := chatServer(t, `{"found": true, "x": 10, "y": 20}`, &gotBody)
	defer server.Close()

	client := NewClient(Config{Type: ProviderOpenAI, Endpoint: server.URL, Model: "m", VisionModel: "vm"})
	reply, err := client.CompleteVision("find the button", "aGVsbG8=")
	require.NoError(t, err)
	assert.Contains(t, reply, `"found": true`)

	assert.Equal(t, "vm", gotBody["model"])
	messages := gotBody["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	image := content[1].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", image["url"])
}

func TestReplyContentFallbackPaths(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message content", `{"choices": [{"message": {"content": "a"}}]}`, "a"},
		{"text field", `{"choices": [{"text": "b"}]}`, "b"},
		{"content field", `{"choices": [{"content": "c"}]}`, "c"},
		{"no choices", `{"choices": []}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, replyContent([]byte(tt.body)))
		})
	}
}

func TestPlanSystemPromptListsVocabulary(t *testing.T) {
	prompt := PlanSystemPrompt(store.New().ValidActions())
	assert.Contains(t, prompt, "click, double_click, right_click")
	assert.Contains(t, prompt, "move_mouse")
	assert.Contains(t, prompt, "ONLY a JSON object")
}

func TestGeneratorFixesInvalidPlan(t *testing.T) {
	planJSON := `{"goal": "g", "steps": [
		{"id": 1, "action": "launch", "target": "Notepad"},
		{"id": 2, "action": "wait", "value": "a few seconds"}
	]}`
	server := chatServer(t, planJSON, nil)
	defer server.Close()

	client := NewClient(Config{Type: ProviderOpenAI, Endpoint: server.URL, Model: "m"})
	g := NewGenerator(client, store.New(), nil)

	// "launch" is unknown and the wait value has no digits: both get fixed.
	fixed, report, err := g.Generate("open notepad")
	require.NoError(t, err)
	assert.True(t, report.IsValid, "errors: %v", report.Errors)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(fixed), &decoded))
	steps := decoded["steps"].([]any)
	assert.Equal(t, "click", steps[0].(map[string]any)["action"])
	assert.Equal(t, "4", steps[1].(map[string]any)["value"])
}
