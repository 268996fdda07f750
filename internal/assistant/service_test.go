package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carbonctrl/carbonctrl/internal/config"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	"go.uber.org/zap"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		payload := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
}

func newService(cfg config.AssistantConfig) Service {
	log := zap.NewNop()
	return New(log, cfg, NewClient(log, cfg), metrics.NewNop())
}

func TestAskQuestionUsesCompletionEndpoint(t *testing.T) {
	srv := completionServer(t, "Plant more trees.")
	defer srv.Close()

	svc := newService(config.AssistantConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-3.5-turbo"})
	answer, err := svc.AskQuestion(context.Background(), "How can I help forests?")
	if err != nil {
		t.Fatalf("failed to ask: %v", err)
	}
	if answer != "Plant more trees." {
		t.Fatalf("unexpected answer: %q", answer)
	}
}

func TestAskQuestionFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newService(config.AssistantConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-3.5-turbo"})
	answer, err := svc.AskQuestion(context.Background(), "What is composting?")
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if answer != FallbackAnswer {
		t.Fatalf("expected fallback answer, got %q", answer)
	}
}

func TestAskQuestionRejectsEmptyInput(t *testing.T) {
	svc := newService(config.AssistantConfig{})
	if _, err := svc.AskQuestion(context.Background(), "   "); err != ErrEmptyQuestion {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
}

func TestAskQuestionDemoMode(t *testing.T) {
	svc := newService(config.AssistantConfig{})
	answer, err := svc.AskQuestion(context.Background(), "Why does recycling matter?")
	if err != nil {
		t.Fatalf("failed to ask: %v", err)
	}
	if answer == "" || answer == FallbackAnswer {
		t.Fatalf("expected canned demo answer, got %q", answer)
	}
}

func TestGenerateQuizParsesResponse(t *testing.T) {
	srv := completionServer(t, "Here you go:\n"+
		`{"questions":[{"question":"What melts polar ice?","options":["Cold","Warming","Wind","Rain"],"correctAnswer":1,"explanation":"Rising temperatures melt ice."}]}`)
	defer srv.Close()

	svc := newService(config.AssistantConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-3.5-turbo"})
	questions, err := svc.GenerateQuiz(context.Background(), "climate change", "hard", 3)
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != 1 {
		t.Fatalf("expected correct answer 1, got %d", questions[0].CorrectAnswer)
	}
	if questions[0].Points != 30 {
		t.Fatalf("expected hard questions worth 30 points, got %d", questions[0].Points)
	}
	if questions[0].ID != 1 {
		t.Fatalf("expected question IDs assigned, got %d", questions[0].ID)
	}
}

func TestGenerateQuizDemoMode(t *testing.T) {
	svc := newService(config.AssistantConfig{})
	questions, err := svc.GenerateQuiz(context.Background(), "recycling", "easy", 1)
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 demo questions, got %d", len(questions))
	}
	for _, q := range questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			t.Fatalf("correct answer out of range: %+v", q)
		}
	}
}

func TestGenerateInsightsFallsBackOnBadPayload(t *testing.T) {
	srv := completionServer(t, "not json at all")
	defer srv.Close()

	svc := newService(config.AssistantConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "gpt-3.5-turbo"})
	insights, err := svc.GenerateInsights(context.Background(), &profiledomain.Profile{Level: 2})
	if err != nil {
		t.Fatalf("expected default insights, got error: %v", err)
	}
	if len(insights.Recommendations) == 0 {
		t.Fatal("expected default recommendations")
	}
}

func TestGenerateMotivationDemoMode(t *testing.T) {
	svc := newService(config.AssistantConfig{})
	message, err := svc.GenerateMotivation(context.Background(), &profiledomain.Profile{
		DisplayName: "Kai",
		EcoScore:    250,
		Level:       3,
	})
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	if message == "" {
		t.Fatal("expected motivation message")
	}
}
