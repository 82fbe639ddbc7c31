package content

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func geminiClient(t *testing.T, body string, status int) *GeminiGenerator {
	t.Helper()
	g, err := NewGeminiGenerator(GeminiOptions{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(strings.NewReader(body)),
				Header:     http.Header{"Content-Type": []string{"application/json"}},
			}, nil
		})},
	})
	if err != nil {
		t.Fatalf("NewGeminiGenerator() error: %v", err)
	}
	return g
}

func candidateBody(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":` + text + `}]}}]}`
}

func TestGeminiFlashcardsParsesPayload(t *testing.T) {
	g := geminiClient(t, candidateBody(`"{\"cards\":[{\"front\":\"Q\",\"back\":\"A\"}]}"`), http.StatusOK)
	cards, err := g.Flashcards(context.Background(), "maps", "en", 1)
	if err != nil {
		t.Fatalf("Flashcards() error: %v", err)
	}
	if len(cards) != 1 || cards[0].Front != "Q" || cards[0].Back != "A" {
		t.Fatalf("Flashcards() = %+v, want one Q/A card", cards)
	}
}

func TestGeminiFallsBackOnTransportError(t *testing.T) {
	g, err := NewGeminiGenerator(GeminiOptions{
		APIKey: "dummy",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("boom")
		})},
	})
	if err != nil {
		t.Fatalf("NewGeminiGenerator() error: %v", err)
	}
	cards, err := g.Flashcards(context.Background(), "maps", "en", 2)
	if err != nil {
		t.Fatalf("Flashcards() error: %v", err)
	}
	if len(cards) == 0 {
		t.Fatalf("fallback produced no cards")
	}
}

func TestGeminiFallsBackOnBadStatus(t *testing.T) {
	g := geminiClient(t, `{"error":"quota"}`, http.StatusTooManyRequests)
	reply, err := g.Chat(context.Background(), "help", "en")
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if reply == nil || reply.Reply == "" {
		t.Fatalf("fallback produced empty chat reply")
	}
}

func TestGeminiFallsBackOnUnparsablePayload(t *testing.T) {
	g := geminiClient(t, candidateBody(`"not even json"`), http.StatusOK)
	questions, err := g.QuizQuestions(context.Background(), "slices", "en", 3)
	if err != nil {
		t.Fatalf("QuizQuestions() error: %v", err)
	}
	if len(questions) == 0 {
		t.Fatalf("fallback produced no questions")
	}
}

func TestGeminiStripsCodeFences(t *testing.T) {
	fenced := "```json\n{\"reply\":\"use a for loop\"}\n```"
	g := geminiClient(t, candidateBody(jsonString(fenced)), http.StatusOK)
	reply, err := g.Chat(context.Background(), "loops?", "en")
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if reply.Reply != "use a for loop" {
		t.Fatalf("Reply = %q, want fenced payload to parse", reply.Reply)
	}
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(GeminiOptions{}); err == nil {
		t.Fatalf("NewGeminiGenerator() without key expected error")
	}
}

func TestExtractJSONFragment(t *testing.T) {
	got := extractJSONFragment("Here you go: {\"a\":1} hope it helps")
	if got != `{"a":1}` {
		t.Fatalf("extractJSONFragment() = %q", got)
	}
}

func jsonString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
