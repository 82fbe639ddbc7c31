package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"codequest/internal/middleware"
)

const defaultContentTimeout = 10 * time.Second

func (a *App) contentContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := defaultContentTimeout
	if a.Config != nil && a.Config.ContentTimeout > 0 {
		timeout = a.Config.ContentTimeout
	}
	return context.WithTimeout(r.Context(), timeout)
}

type topicRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

func (a *App) ContentFlashcards(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Topic == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "topic required")
		return
	}
	if req.Count <= 0 {
		req.Count = 5
	}
	ctx, cancel := a.contentContext(r)
	defer cancel()
	cards, err := a.Content.Flashcards(ctx, req.Topic, middleware.LocaleFromContext(r.Context()), req.Count)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"flashcards": cards})
}

func (a *App) ContentQuiz(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Topic == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "topic required")
		return
	}
	if req.Count <= 0 {
		req.Count = 5
	}
	ctx, cancel := a.contentContext(r)
	defer cancel()
	questions, err := a.Content.QuizQuestions(ctx, req.Topic, middleware.LocaleFromContext(r.Context()), req.Count)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"questions": questions})
}

func (a *App) ContentLesson(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Topic == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "topic required")
		return
	}
	ctx, cancel := a.contentContext(r)
	defer cancel()
	steps, err := a.Content.LessonSteps(ctx, req.Topic, middleware.LocaleFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"steps": steps})
}

type examRequest struct {
	Module string `json:"module"`
}

func (a *App) ContentExam(w http.ResponseWriter, r *http.Request) {
	var req examRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Module == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "module required")
		return
	}
	ctx, cancel := a.contentContext(r)
	defer cancel()
	paper, err := a.Content.ExamPaper(ctx, req.Module, middleware.LocaleFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, paper)
}

type searchRequest struct {
	Query string `json:"query"`
}

func (a *App) ContentSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "query required")
		return
	}
	ctx, cancel := a.contentContext(r)
	defer cancel()
	results, err := a.Content.Search(ctx, req.Query, middleware.LocaleFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"results": results})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (a *App) ContentChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "message required")
		return
	}
	ctx, cancel := a.contentContext(r)
	defer cancel()
	reply, err := a.Content.Chat(ctx, req.Message, middleware.LocaleFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, reply)
}

type codeRequest struct {
	Source string `json:"source"`
}

func (a *App) ContentRunCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Source == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "source required")
		return
	}
	ctx, cancel := a.contentContext(r)
	defer cancel()
	run, err := a.Content.RunCode(ctx, req.Source)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, run)
}

func (a *App) ContentReviewCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Source == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "source required")
		return
	}
	ctx, cancel := a.contentContext(r)
	defer cancel()
	feedback, err := a.Content.ReviewCode(ctx, req.Source, middleware.LocaleFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, feedback)
}
