// Package ai is the boundary to the generative-text backend. The
// Gemini client speaks the REST API directly over net/http; callers
// depend on the Generator interface so tests can swap in a fake.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"retaildesk/backend/internal/domain"
)

// Generator produces advisor reports and chat replies. Report
// generation surfaces failures to the caller; the chat fallback
// strings are applied one layer up so the interface stays honest
// about errors.
type Generator interface {
	GenerateReport(ctx context.Context, profile domain.BusinessProfile, metrics domain.KPIMetrics, history []domain.DailySales) (string, error)
	Chat(ctx context.Context, history []domain.ChatTurn, message string, businessContext string) (string, error)
}

// Fixed operator-facing strings for the degraded paths.
const (
	ReportEmptyFallback = "Unable to generate insights at this time."
	ChatErrorFallback   = "Connection error. Please try again."
	ChatEmptyFallback   = "I'm having trouble processing that right now."
)

var ErrNoAPIKey = errors.New("gemini api key not configured")

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

const reportSystemPrompt = "You are a helpful and concise business analytics assistant."

type GeminiClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GeminiClient) GenerateReport(ctx context.Context, profile domain.BusinessProfile, metrics domain.KPIMetrics, history []domain.DailySales) (string, error) {
	prompt := buildReportPrompt(profile, metrics, history)
	return c.generate(ctx, reportSystemPrompt, []geminiContent{
		{Role: "user", Parts: []geminiPart{{Text: prompt}}},
	})
}

func (c *GeminiClient) Chat(ctx context.Context, history []domain.ChatTurn, message string, businessContext string) (string, error) {
	system := fmt.Sprintf(`You are "RetailDesk AI", a smart assistant for a retail shop owner.
Current Business Context: %s.
Keep answers short, data-driven, and helpful. Use Markdown for formatting. Use ₹ symbol for currency.`, businessContext)

	contents := make([]geminiContent, 0, len(history)+1)
	for _, turn := range history {
		role := turn.Role
		if role != "model" {
			role = "user"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: turn.Text}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: message}}})

	return c.generate(ctx, system, contents)
}

func (c *GeminiClient) generate(ctx context.Context, system string, contents []geminiContent) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          contents,
		GenerationConfig: genConfig{
			Temperature:     0.4,
			MaxOutputTokens: 1024,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf(geminiBaseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("gemini: %w", ctx.Err())
		}
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("gemini: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("gemini: error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return "", fmt.Errorf("gemini: HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text), nil
}

func buildReportPrompt(profile domain.BusinessProfile, metrics domain.KPIMetrics, history []domain.DailySales) string {
	if len(history) > 7 {
		history = history[len(history)-7:]
	}
	var trend strings.Builder
	for _, d := range history {
		fmt.Fprintf(&trend, "Date: %s, Rev: ₹%d, Profit: ₹%d\n", d.Date, d.Revenue, d.Profit)
	}

	return fmt.Sprintf(`You are an expert retail business consultant named "RetailDesk AI".
Analyze the following business performance data for a %s business named %q.

Business Context:
- Sector: %s
- Branches: %d

Current KPIs:
- Total Revenue: ₹%d
- Total Profit: ₹%d
- Growth Rate: %.1f%%
- Customer Count: %d

Recent Weekly Trend:
%s
Please provide:
1. A brief executive summary of performance.
2. Identify one key strength and one potential risk based on the data.
3. Give 2 actionable recommendations to improve profitability or customer retention for this specific sector.

Keep the tone professional, encouraging, and concise (under 200 words).
Format the output with Markdown. Use ₹ symbol for all currency.`,
		profile.Sector, profile.CompanyName,
		profile.Sector, len(profile.Branches),
		metrics.TotalRevenue, metrics.TotalProfit, metrics.GrowthRate, metrics.CustomerCount,
		trend.String())
}
