package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"kal-storefront/internal/domain"
	"kal-storefront/internal/service"

	"github.com/pkg/errors"
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// CompletionClient talks to a chat-completions style endpoint.
type CompletionClient struct {
	client   HTTPClient
	endpoint string
	apiKey   string
	model    string
}

func NewCompletionClient(client HTTPClient, endpoint, apiKey, model string) *CompletionClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &CompletionClient{client: client, endpoint: endpoint, apiKey: apiKey, model: model}
}

func (c *CompletionClient) Complete(ctx context.Context, systemInstruction, userMessage string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" || strings.TrimSpace(c.endpoint) == "" {
		return "", domain.ErrMissingCredentials
	}

	payload, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userMessage},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "encode completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "call completion endpoint")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", errors.Wrapf(domain.ErrMissingCredentials, "endpoint rejected key with %d", resp.StatusCode)
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", errors.Wrap(err, "decode completion response")
	}
	if len(decoded.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

var _ service.Completer = (*CompletionClient)(nil)
