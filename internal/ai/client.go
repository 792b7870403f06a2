package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Client calls one configured chat-completion provider.
type Client struct {
	Config Config

	httpClient *http.Client
}

// NewClient returns a client for the given provider configuration.
func NewClient(config Config) *Client {
	transport := &http.Transport{}
	if config.ProxyURL != "" {
		if proxyURL, err := url.Parse(config.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &Client{
		Config: config,
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
	}
}

// Message is one chat message. Content is a string for text-only exchanges or
// a content-part list for vision queries.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// GeneratePlan asks the model for a raw task plan and returns the JSON
// object extracted from its reply.
func (c *Client) GeneratePlan(systemPrompt, instruction string) (string, error) {
	content, err := c.complete(c.Config.Model, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: instruction},
	})
	if err != nil {
		return "", err
	}

	jsonStr := ExtractJSON(content)
	if jsonStr == "" {
		return "", fmt.Errorf("no valid JSON in model reply: %s", content)
	}
	return jsonStr, nil
}

// CompleteVision sends a prompt plus a base64 PNG screenshot and returns the
// model's raw reply. Used by the element locator.
func (c *Client) CompleteVision(prompt, imageB64 string) (string, error) {
	model := c.Config.VisionModel
	if model == "" {
		model = c.Config.Model
	}
	content := []map[string]any{
		{"type": "text", "text": prompt},
		{"type": "image_url", "image_url": map[string]string{
			"url": "data:image/png;base64," + imageB64,
		}},
	}
	return c.complete(model, []Message{{Role: "user", Content: content}})
}

// complete performs one chat-completion round trip against the configured
// provider and returns the reply text.
func (c *Client) complete(model string, messages []Message) (string, error) {
	endpoint, headers := c.endpoint()

	requestBody := map[string]any{
		"messages":    messages,
		"temperature": 0.7,
	}
	if c.Config.Type != ProviderAzure {
		// Azure picks the model from the deployment in the endpoint path.
		requestBody["model"] = model
	}

	requestData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("serialize request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(requestData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if message := apiErrorMessage(body); message != "" {
			return "", fmt.Errorf("api error: %s", message)
		}
		return "", fmt.Errorf("api request failed with status %d: %s", resp.StatusCode, body)
	}

	content := replyContent(body)
	if content == "" {
		return "", fmt.Errorf("unexpected response shape: %s", body)
	}
	return content, nil
}

// endpoint resolves the provider URL and auth headers.
func (c *Client) endpoint() (string, map[string]string) {
	switch c.Config.Type {
	case ProviderAzure:
		endpoint := strings.TrimSuffix(c.Config.Endpoint, "/")
		if !strings.HasSuffix(endpoint, "/chat/completions") {
			endpoint += "/chat/completions"
		}
		if c.Config.APIVersion != "" {
			endpoint += "?api-version=" + url.QueryEscape(c.Config.APIVersion)
		}
		return endpoint, map[string]string{"api-key": c.Config.APIKey}

	case ProviderDeepSeek:
		endpoint := c.Config.Endpoint
		if endpoint == "" {
			endpoint = "https://api.deepseek.com/chat/completions"
		}
		return endpoint, map[string]string{"Authorization": "Bearer " + c.Config.APIKey}

	case ProviderGroq:
		endpoint := c.Config.Endpoint
		if endpoint == "" {
			endpoint = "https://api.groq.com/openai/v1/chat/completions"
		}
		return endpoint, map[string]string{"Authorization": "Bearer " + c.Config.APIKey}

	default:
		endpoint := c.Config.Endpoint
		if endpoint == "" {
			endpoint = "https://api.openai.com/v1/chat/completions"
		}
		return endpoint, map[string]string{"Authorization": "Bearer " + c.Config.APIKey}
	}
}

func apiErrorMessage(body []byte) string {
	var errorResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return ""
	}
	return errorResp.Error.Message
}

// replyContent digs the reply text out of the response, tolerating the shape
// differences between providers.
func replyContent(body []byte) string {
	var response map[string]any
	if err := json.Unmarshal(body, &response); err != nil {
		return ""
	}

	choices, ok := response["choices"].([]any)
	if !ok || len(choices) == 0 {
		return ""
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return ""
	}

	if message, ok := choice["message"].(map[string]any); ok {
		if content, ok := message["content"].(string); ok && content != "" {
			return content
		}
	}
	if text, ok := choice["text"].(string); ok && text != "" {
		return text
	}
	if content, ok := choice["content"].(string); ok {
		return content
	}
	return ""
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON pulls the JSON object out of model output, repairing the
// single-quote mistake some models make. Returns "" when nothing parses.
func ExtractJSON(text string) string {
	match := jsonObject.FindString(text)
	if match != "" {
		var js map[string]any
		if err := json.Unmarshal([]byte(match), &js); err == nil {
			return match
		}
		fixed := strings.ReplaceAll(match, "'", `"`)
		if err := json.Unmarshal([]byte(fixed), &js); err == nil {
			return fixed
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && start < end {
		candidate := text[start : end+1]
		var js map[string]any
		if err := json.Unmarshal([]byte(candidate), &js); err == nil {
			return candidate
		}
	}

	return ""
}
