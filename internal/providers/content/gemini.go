package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	geminiProviderName = "gemini"

	// Content requests race a short timeout so the screens render instantly
	// from fallback content when the provider is slow.
	geminiDefaultTimeout = 3 * time.Second
)

// GeminiOptions configures the HTTP-backed generator.
type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Generator
}

// GeminiGenerator produces content through the Gemini generateContent API.
// Any failure (transport error, bad status, timeout, unparsable payload)
// falls back to the static generator, so callers always get a payload.
type GeminiGenerator struct {
	apiKey   string
	model    string
	baseURL  string
	client   *http.Client
	fallback Generator
}

func NewGeminiGenerator(opts GeminiOptions) (*GeminiGenerator, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = NewStaticGenerator()
	}
	return &GeminiGenerator{
		apiKey:   opts.APIKey,
		model:    model,
		baseURL:  baseURL,
		client:   client,
		fallback: fallback,
	}, nil
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// generate performs one prompt round-trip and returns the raw text of the
// first non-empty candidate part.
func (g *GeminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.4,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini: status %d", resp.StatusCode)
	}
	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	for _, cand := range out.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text, nil
			}
		}
	}
	return "", errors.New("gemini: empty candidates")
}

func generatePayload[T any](g *GeminiGenerator, ctx context.Context, prompt string) (T, bool) {
	var zero T
	text, err := g.generate(ctx, prompt)
	if err != nil {
		return zero, false
	}
	decoded, err := parsePayload[T](text)
	if err != nil {
		return zero, false
	}
	return decoded, true
}

type flashcardsPayload struct {
	Cards []Flashcard `json:"cards"`
}

func (g *GeminiGenerator) Flashcards(ctx context.Context, topic, locale string, count int) ([]Flashcard, error) {
	prompt := fmt.Sprintf(
		`You are a programming tutor. Produce %d flashcards about %q. Respond strictly with JSON: {"cards":[{"front":string,"back":string}]}. Use locale %q for the card text.`,
		max(count, 1), topic, localeOr(locale))
	parsed, ok := generatePayload[flashcardsPayload](g, ctx, prompt)
	if !ok || len(parsed.Cards) == 0 {
		return g.fallback.Flashcards(ctx, topic, locale, count)
	}
	return parsed.Cards, nil
}

type quizPayload struct {
	Questions []QuizQuestion `json:"questions"`
}

func (g *GeminiGenerator) QuizQuestions(ctx context.Context, topic, locale string, count int) ([]QuizQuestion, error) {
	prompt := fmt.Sprintf(
		`You are a programming tutor. Produce %d multiple-choice questions about %q. Respond strictly with JSON: {"questions":[{"prompt":string,"options":string[],"answer_index":int,"explanation":string}]}. Exactly four options each. Use locale %q.`,
		max(count, 1), topic, localeOr(locale))
	parsed, ok := generatePayload[quizPayload](g, ctx, prompt)
	if !ok || len(parsed.Questions) == 0 {
		return g.fallback.QuizQuestions(ctx, topic, locale, count)
	}
	return parsed.Questions, nil
}

type lessonPayload struct {
	Steps []LessonStep `json:"steps"`
}

func (g *GeminiGenerator) LessonSteps(ctx context.Context, topic, locale string) ([]LessonStep, error) {
	prompt := fmt.Sprintf(
		`You are a programming tutor. Produce a short lesson about %q as ordered steps. Respond strictly with JSON: {"steps":[{"title":string,"body":string,"code":string}]}. Use locale %q.`,
		topic, localeOr(locale))
	parsed, ok := generatePayload[lessonPayload](g, ctx, prompt)
	if !ok || len(parsed.Steps) == 0 {
		return g.fallback.LessonSteps(ctx, topic, locale)
	}
	return parsed.Steps, nil
}

func (g *GeminiGenerator) ExamPaper(ctx context.Context, module, locale string) (*ExamPaper, error) {
	prompt := fmt.Sprintf(
		`You are a programming examiner. Produce an exam paper for the module %q. Respond strictly with JSON: {"title":string,"duration_minutes":int,"questions":[{"prompt":string,"options":string[],"answer_index":int,"explanation":string}]}. Use locale %q.`,
		module, localeOr(locale))
	parsed, ok := generatePayload[ExamPaper](g, ctx, prompt)
	if !ok || len(parsed.Questions) == 0 {
		return g.fallback.ExamPaper(ctx, module, locale)
	}
	return &parsed, nil
}

type searchPayload struct {
	Results []SearchResult `json:"results"`
}

func (g *GeminiGenerator) Search(ctx context.Context, query, locale string) ([]SearchResult, error) {
	prompt := fmt.Sprintf(
		`You are a documentation search assistant for a programming course. Answer the query %q. Respond strictly with JSON: {"results":[{"title":string,"snippet":string}]}. Use locale %q.`,
		query, localeOr(locale))
	parsed, ok := generatePayload[searchPayload](g, ctx, prompt)
	if !ok || len(parsed.Results) == 0 {
		return g.fallback.Search(ctx, query, locale)
	}
	return parsed.Results, nil
}

func (g *GeminiGenerator) Chat(ctx context.Context, message, locale string) (*ChatReply, error) {
	prompt := fmt.Sprintf(
		`You are a friendly programming tutor chatting with a student. Reply to: %q. Respond strictly with JSON: {"reply":string}. Use locale %q and keep it under 120 words.`,
		message, localeOr(locale))
	parsed, ok := generatePayload[ChatReply](g, ctx, prompt)
	if !ok || strings.TrimSpace(parsed.Reply) == "" {
		return g.fallback.Chat(ctx, message, locale)
	}
	return &parsed, nil
}

func (g *GeminiGenerator) RunCode(ctx context.Context, source string) (*CodeRun, error) {
	prompt := fmt.Sprintf(
		`Simulate executing this program and report its output. Respond strictly with JSON: {"stdout":string,"exit_code":int,"duration_ms":int}. Program: %q`,
		source)
	parsed, ok := generatePayload[CodeRun](g, ctx, prompt)
	if !ok {
		return g.fallback.RunCode(ctx, source)
	}
	return &parsed, nil
}

func (g *GeminiGenerator) ReviewCode(ctx context.Context, source, locale string) (*CodeFeedback, error) {
	prompt := fmt.Sprintf(
		`You are a code reviewer. Review this program and score it 0-100. Respond strictly with JSON: {"summary":string,"issues":string[],"score":int}. Use locale %q. Program: %q`,
		localeOr(locale), source)
	parsed, ok := generatePayload[CodeFeedback](g, ctx, prompt)
	if !ok || strings.TrimSpace(parsed.Summary) == "" {
		return g.fallback.ReviewCode(ctx, source, locale)
	}
	return &parsed, nil
}

func localeOr(locale string) string {
	if strings.TrimSpace(locale) == "" {
		return "en"
	}
	return locale
}

func parsePayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

// extractJSONFragment tolerates models that wrap JSON in prose or fences.
func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

var _ Generator = (*GeminiGenerator)(nil)
