package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/IliaW/scrape-legality/config"
	"github.com/IliaW/scrape-legality/internal/telemetry"
	jsoniter "github.com/json-iterator/go"
)

const promptTemplate = `
You are a legal AI. Analyze whether scraping the website "%s" is LEGAL or POTENTIALLY ILLEGAL.

Evaluate:
1. robots.txt rules:
%s

2. Terms of Service / Privacy Policy:
--- START ---
%s
--- END ---

Answer:
- LEGAL or POTENTIALLY ILLEGAL
- A clear explanation why.
- Write in a professional tone, suitable for a legal document.
- write in short 5-6 bullet points.
`

const defaultTermsMaxChars = 7000

//go:generate go run github.com/vektra/mockery/v2@v2.53.0 --name LegalAnalyzer
type LegalAnalyzer interface {
	Analyze(ctx context.Context, domain, robotsTxt, termsText string) string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type OpenAiAnalyzer struct {
	cfg           *config.OpenAiConfig
	termsMaxChars int
	httpClient    *http.Client
	metrics       *telemetry.AppMetrics
}

func NewOpenAiAnalyzer(cfg *config.OpenAiConfig, termsMaxChars int, httpClient *http.Client,
	metrics *telemetry.AppMetrics) *OpenAiAnalyzer {
	if termsMaxChars <= 0 {
		termsMaxChars = defaultTermsMaxChars
	}
	return &OpenAiAnalyzer{
		cfg:           cfg,
		termsMaxChars: termsMaxChars,
		httpClient:    httpClient,
		metrics:       metrics,
	}
}

// Analyze asks the chat-completion model for a verdict. Failures are returned as
// text prefixed with "OpenAI Error" or "OpenAI API Error" instead of a Go error.
func (a *OpenAiAnalyzer) Analyze(ctx context.Context, domain, robotsTxt, termsText string) string {
	prompt := BuildPrompt(domain, robotsTxt, termsText, a.termsMaxChars)

	apiKey := strings.TrimSpace(a.cfg.ApiKey)
	if apiKey == "" {
		a.errorCounter()
		return "OpenAI Error: API key not set."
	}
	slog.Debug("using OpenAI API key.", slog.String("key", maskKey(apiKey)))

	verdict, err := a.complete(ctx, apiKey, prompt)
	if err != nil {
		a.errorCounter()
		return "OpenAI Error: " + err.Error()
	}

	return verdict
}

func (a *OpenAiAnalyzer) complete(ctx context.Context, apiKey, prompt string) (string, error) {
	payload, err := jsoniter.Marshal(chatRequest{
		Model:       a.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}

	tCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(tCtx, http.MethodPost, a.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		err = resp.Body.Close()
		if err != nil {
			slog.Error("error closing response body", slog.String("err", err.Error()))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("openai request failed.", slog.Int("status_code", resp.StatusCode))
		a.errorCounter()
		return fmt.Sprintf("OpenAI API Error %d: %s", resp.StatusCode, string(body)), nil
	}

	var completion chatResponse
	if err = jsoniter.Unmarshal(body, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("response has no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (a *OpenAiAnalyzer) errorCounter() {
	if a.metrics != nil {
		a.metrics.AnalyzerErrorCounter(1)
	}
}

// BuildPrompt embeds at most termsMaxChars characters of termsText.
func BuildPrompt(domain, robotsTxt, termsText string, termsMaxChars int) string {
	return fmt.Sprintf(promptTemplate, domain, robotsTxt, Truncate(termsText, termsMaxChars))
}

// Truncate cuts s to at most n characters without splitting a multi-byte rune.
func Truncate(s string, n int) string {
	if n < 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func maskKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:8] + "..."
}
