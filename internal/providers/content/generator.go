package content

import "context"

// Flashcard is a front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
}

// LessonStep is one step of a generated lesson.
type LessonStep struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Code  string `json:"code,omitempty"`
}

// ExamPaper is a timed set of quiz questions covering a module.
type ExamPaper struct {
	Title           string         `json:"title"`
	DurationMinutes int            `json:"duration_minutes"`
	Questions       []QuizQuestion `json:"questions"`
}

// SearchResult is a single documentation-search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// ChatReply is one tutor chat turn.
type ChatReply struct {
	Reply string `json:"reply"`
}

// CodeRun is a simulated execution transcript.
type CodeRun struct {
	Stdout     string `json:"stdout"`
	ExitCode   int    `json:"exit_code"`
	DurationMS int    `json:"duration_ms"`
}

// CodeFeedback is a review bundle for submitted code.
type CodeFeedback struct {
	Summary string   `json:"summary"`
	Issues  []string `json:"issues"`
	Score   int      `json:"score"`
}

// Generator produces display content for the learning screens. The
// progression engine never depends on these results; they only trigger
// progression calls from the client. Implementations may fail or time out,
// and callers expect a usable payload regardless, so the HTTP-backed
// implementation degrades to static content on every error path.
type Generator interface {
	Flashcards(ctx context.Context, topic, locale string, count int) ([]Flashcard, error)
	QuizQuestions(ctx context.Context, topic, locale string, count int) ([]QuizQuestion, error)
	LessonSteps(ctx context.Context, topic, locale string) ([]LessonStep, error)
	ExamPaper(ctx context.Context, module, locale string) (*ExamPaper, error)
	Search(ctx context.Context, query, locale string) ([]SearchResult, error)
	Chat(ctx context.Context, message, locale string) (*ChatReply, error)
	RunCode(ctx context.Context, source string) (*CodeRun, error)
	ReviewCode(ctx context.Context, source, locale string) (*CodeFeedback, error)
}
