// Package recognize turns free-form meal descriptions and food photos into
// calorie/macro estimates by calling an OpenAI-compatible chat completions
// endpoint and parsing the fixed labeled reply layout.
package recognize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = "gpt-4.1-mini"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

const textPrompt = `Пользователь описал съеденную еду: %q

Твоя задача:
1) определить продукты
2) оценить примерный вес
3) посчитать калории и БЖУ

Ответ верни СТРОГО в формате:

Название: текст
Калории: число
Белки: число
Жиры: число
Углеводы: число

Без лишнего текста.`

const imagePrompt = `Определи что за еда на фото и оцени порцию.

Ответ верни СТРОГО в формате:

Название: текст
Калории: число
Белки: число
Жиры: число
Углеводы: число

Без лишнего текста.`

// AnalyzeText estimates nutrition for a textual meal description.
func (c *Client) AnalyzeText(ctx context.Context, description string) (Estimate, error) {
	reply, err := c.complete(ctx, []message{
		{Role: "user", Content: fmt.Sprintf(textPrompt, description)},
	})
	if err != nil {
		return Estimate{}, err
	}
	return ParseEstimate(reply)
}

// AnalyzeImage estimates nutrition for a food photo.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte) (Estimate, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	reply, err := c.complete(ctx, []message{
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: imagePrompt},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
		}},
	})
	if err != nil {
		return Estimate{}, err
	}
	return ParseEstimate(reply)
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, messages []message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, string(raw))
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}
