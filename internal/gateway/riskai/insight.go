package riskai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// InsightPlaceholder is returned when the insight model cannot be reached.
// Insight generation must never fail the request that triggered it.
const InsightPlaceholder = "AI insight is currently unavailable."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateInsight sends the prompt to the chat-completion endpoint and
// returns the first choice's text. On any failure it logs the error and
// returns the placeholder string; the caller never sees an error.
func (c *Client) GenerateInsight(ctx context.Context, prompt string) string {
	text, err := c.generateInsight(ctx, prompt)
	if err != nil {
		c.logger.Warn().Err(err).Msg("insight generation failed, using placeholder")
		return InsightPlaceholder
	}
	return text
}

func (c *Client) generateInsight(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.cfg.InsightModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal insight request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.InsightURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build insight request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.InsightAPIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.InsightAPIKey)
	}

	resp, err := c.insightHTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call insight model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight model returned status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("decode insight response: %w", err)
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("insight model returned no choices")
	}

	return chat.Choices[0].Message.Content, nil
}
