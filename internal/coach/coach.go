// Package coach answers free-text nutrition questions with the user's
// current day totals and goal as context. Read-only: it never writes to
// the diary.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
)

const systemPrompt = `Ты строгий, но поддерживающий коуч по питанию и дисциплине.
Говори коротко, по делу.
Не сюсюкай.
Если человек оправдывается — мягко возвращай к ответственности.`

type Coach struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func New(baseURL, apiKey, model string) *Coach {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Coach{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// Advise returns free-text advice for the user's question, with the day's
// totals and goal appended as context.
func (c *Coach) Advise(ctx context.Context, question string, day model.DaySummary, goal string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", question)
	fmt.Fprintf(&b, "Контекст: сегодня съедено %.0f ккал из %d (осталось %.0f).", day.KcalTotal, day.KcalTarget, day.KcalLeft)
	if goal != "" {
		fmt.Fprintf(&b, " Цель: %s.", goal)
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": b.String()},
		},
		"temperature": 0.6,
	})
	if err != nil {
		return "", fmt.Errorf("marshal advice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create advice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call advice endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("advice endpoint returned %d: %s", resp.StatusCode, string(raw))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode advice response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("advice response has no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
