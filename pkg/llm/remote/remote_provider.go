package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"llama-chat-be/pkg/llm"
)

const fallbackFailure = "Failed to generate response"

// Provider calls the hosted /generate endpoint. Plain prompts go as JSON;
// prompts with a file attachment go as multipart form data.
type Provider struct {
	BaseURL      string
	Model        string
	MaxNewTokens int
	Client       *http.Client
}

var _ llm.Provider = &Provider{}

func NewProvider(baseURL, model string, maxNewTokens int) *Provider {
	return &Provider{
		BaseURL:      baseURL,
		Model:        model,
		MaxNewTokens: maxNewTokens,
		Client: &http.Client{
			// Generation against large models is slow; no shorter deadline
			// is applied on top of this.
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type generateRequest struct {
	Prompt       string `json:"prompt"`
	Model        string `json:"model"`
	MaxNewTokens int    `json:"max_new_tokens"`
}

type generateResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Generate implements llm.Provider. Transport problems (network failure,
// non-2xx status) come back as plain errors; a well-formed reply whose
// status is not "success" comes back as *llm.SemanticError.
func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Model:        p.Model,
		MaxNewTokens: p.MaxNewTokens,
	}
	for _, opt := range opts {
		opt(options)
	}

	var req *http.Request
	var err error
	if options.Attachment != nil {
		req, err = p.multipartRequest(ctx, prompt, options)
	} else {
		req, err = p.jsonRequest(ctx, prompt, options)
	}
	if err != nil {
		return "", err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// No guaranteed body shape outside 2xx; keep only the status code.
		return "", fmt.Errorf("generation endpoint returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var payload generateResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if payload.Status != "success" {
		reason := payload.Error
		if reason == "" {
			reason = fallbackFailure
		}
		return "", &llm.SemanticError{Reason: reason}
	}
	return payload.Response, nil
}

func (p *Provider) jsonRequest(ctx context.Context, prompt string, options *llm.Options) (*http.Request, error) {
	payload, err := json.Marshal(generateRequest{
		Prompt:       prompt,
		Model:        options.Model,
		MaxNewTokens: options.MaxNewTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/generate", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (p *Provider) multipartRequest(ctx context.Context, prompt string, options *llm.Options) (*http.Request, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", options.Attachment.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(options.Attachment.Data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("write prompt field: %w", err)
	}
	if err := writer.WriteField("model", options.Model); err != nil {
		return nil, fmt.Errorf("write model field: %w", err)
	}
	if err := writer.WriteField("max_new_tokens", fmt.Sprintf("%d", options.MaxNewTokens)); err != nil {
		return nil, fmt.Errorf("write max_new_tokens field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/generate", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}
