package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
)

const (
	DefaultBaseURL = "https://api.deepseek.com"
	DefaultModel   = "deepseek-chat"

	defaultTemperature = 0.7
	defaultMaxTokens   = 500
	placeholderAPIKey  = "your_openai_api_key_here"

	systemPrompt = "You are a professional payment risk analyst who identifies transaction risk and recommends handling."
)

// ErrNoAPIKey is returned when no usable API key is configured.
var ErrNoAPIKey = errors.New("narrative: OPENAI_API_KEY not set")

var _ port.NarrativeClient = (*OpenAIClient)(nil)

// OpenAIClient asks an OpenAI-compatible chat completions endpoint to explain
// a risk score.
type OpenAIClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// HasUsableKey reports whether apiKey is set to something other than the
// sample placeholder.
func HasUsableKey(apiKey string) bool {
	return apiKey != "" && apiKey != placeholderAPIKey
}

// NewOpenAIClient creates a client. Empty baseURL and model take the
// DeepSeek defaults. httpClient may be nil.
func NewOpenAIClient(apiKey, baseURL, model string, httpClient *http.Client) (*OpenAIClient, error) {
	if !HasUsableKey(apiKey) {
		return nil, ErrNoAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAIClient{
		client:  httpClient,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}, nil
}

func (c *OpenAIClient) Model() string   { return c.model }
func (c *OpenAIClient) BaseURL() string { return c.baseURL }

// Explain implements port.NarrativeClient. Cancellation and deadlines come
// from ctx.
func (c *OpenAIClient) Explain(ctx context.Context, txn model.Transaction, score int, reasons []string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(txn, score, reasons)},
		},
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("narrative API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("narrative API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("narrative API returned no choices")
	}
	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}

func buildPrompt(txn model.Transaction, score int, reasons []string) string {
	orUnknown := func(s string) string {
		if s == "" {
			return "unknown"
		}
		return s
	}

	var b strings.Builder
	b.WriteString("Analyse the risk of the following transaction.\n\n")
	b.WriteString("Transaction:\n")
	fmt.Fprintf(&b, "- Amount: %s %s\n", txn.Amount().String(), txn.Currency())
	fmt.Fprintf(&b, "- Payment method: %s\n", txn.PaymentMethod().String())
	fmt.Fprintf(&b, "- Previous transactions by user: %d\n", txn.UserHistory())
	fmt.Fprintf(&b, "- IP country: %s\n", orUnknown(txn.IPCountry()))
	fmt.Fprintf(&b, "- Card country: %s\n\n", orUnknown(txn.CardCountry()))
	fmt.Fprintf(&b, "Risk score: %d/100\n", score)
	fmt.Fprintf(&b, "Risk factors: %s\n\n", strings.Join(reasons, ", "))
	b.WriteString("Cover: 1. the main risk factors 2. potential fraud exposure 3. recommended handling. ")
	b.WriteString("Keep it professional and concise.")
	return b.String()
}
