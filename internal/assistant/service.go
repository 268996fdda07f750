package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/carbonctrl/carbonctrl/internal/config"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	quizdomain "github.com/carbonctrl/carbonctrl/internal/quiz/domain"
	"go.uber.org/zap"
)

// FallbackAnswer is served when the completion endpoint fails. Conversational
// operations degrade to it instead of surfacing an error to the caller.
const FallbackAnswer = "Sorry, I encountered an error. Please try again later."

// Insights is a personalized sustainability summary for one learner.
type Insights struct {
	CarbonFootprint float64  `json:"carbonFootprint"`
	Recommendations []string `json:"recommendations"`
	Achievements    []string `json:"achievements"`
	NextGoals       []string `json:"nextGoals"`
}

// Service is the AI tutor. In demo mode (no API key configured) every
// operation serves canned content so the product works offline.
type Service interface {
	AskQuestion(ctx context.Context, question string) (string, error)
	GenerateQuiz(ctx context.Context, topic, difficulty string, userLevel int) ([]quizdomain.Question, error)
	GenerateInsights(ctx context.Context, profile *profiledomain.Profile) (*Insights, error)
	GenerateMotivation(ctx context.Context, profile *profiledomain.Profile) (string, error)
}

type service struct {
	log     *zap.Logger
	cfg     config.AssistantConfig
	client  Client
	metrics *metrics.Metrics
}

func New(log *zap.Logger, cfg config.AssistantConfig, client Client, m *metrics.Metrics) Service {
	return &service{
		log:     log.Named("assistant.service"),
		cfg:     cfg,
		client:  client,
		metrics: m,
	}
}

func (s *service) AskQuestion(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if s.cfg.DemoMode() {
		s.metrics.RecordAssistantRequest(ctx, "ask", "demo")
		return demoAnswer(question), nil
	}

	prompt := fmt.Sprintf("Answer this environmental question in a friendly, educational way: %q. "+
		"Keep the response under 200 words and include practical tips if relevant.", question)
	answer, err := s.client.Complete(ctx, prompt, 300)
	if err != nil {
		s.log.Warn("completion failed, serving fallback", zap.Error(err))
		s.metrics.RecordAssistantRequest(ctx, "ask", "fallback")
		return FallbackAnswer, nil
	}
	s.metrics.RecordAssistantRequest(ctx, "ask", "ok")
	return answer, nil
}

func (s *service) GenerateQuiz(ctx context.Context, topic, difficulty string, userLevel int) ([]quizdomain.Question, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	difficulty = normalizeDifficulty(difficulty)
	if s.cfg.DemoMode() {
		s.metrics.RecordAssistantRequest(ctx, "generate_quiz", "demo")
		return demoQuiz(topic, difficulty), nil
	}

	prompt := fmt.Sprintf("Generate 3 %s quiz questions about %s for someone at level %d. "+
		"Each question should have 4 multiple choice options. Format as JSON: "+
		`{"questions":[{"question":"Question text","options":["A","B","C","D"],"correctAnswer":0,"explanation":"Why this answer is correct"}]}`,
		strings.ToLower(difficulty), topic, userLevel)
	raw, err := s.client.Complete(ctx, prompt, 800)
	if err != nil {
		s.metrics.RecordAssistantRequest(ctx, "generate_quiz", "error")
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	var payload struct {
		Questions []quizdomain.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		s.metrics.RecordAssistantRequest(ctx, "generate_quiz", "parse_error")
		return nil, fmt.Errorf("parse generated quiz: %w", err)
	}
	if len(payload.Questions) == 0 {
		s.metrics.RecordAssistantRequest(ctx, "generate_quiz", "empty")
		return nil, ErrGenerationFailed
	}

	points := pointsForDifficulty(difficulty)
	for i := range payload.Questions {
		payload.Questions[i].ID = i + 1
		payload.Questions[i].Points = points
	}
	s.metrics.RecordAssistantRequest(ctx, "generate_quiz", "ok")
	return payload.Questions, nil
}

func (s *service) GenerateInsights(ctx context.Context, profile *profiledomain.Profile) (*Insights, error) {
	if s.cfg.DemoMode() {
		s.metrics.RecordAssistantRequest(ctx, "insights", "demo")
		return demoInsights(profile), nil
	}

	prompt := fmt.Sprintf("Based on this learner profile (eco score %d, level %d, %d eco coins, badges: %s), "+
		"generate personalized environmental insights. Format as JSON: "+
		`{"carbonFootprint":estimated_number,"recommendations":["tip1","tip2","tip3"],"achievements":["achievement1","achievement2"],"nextGoals":["goal1","goal2","goal3"]}`,
		profile.EcoScore, profile.Level, profile.EcoCoins, strings.Join(profile.Badges, ", "))
	raw, err := s.client.Complete(ctx, prompt, 600)
	if err != nil {
		s.log.Warn("insight generation failed, serving defaults", zap.Error(err))
		s.metrics.RecordAssistantRequest(ctx, "insights", "fallback")
		return demoInsights(profile), nil
	}

	var insights Insights
	if err := json.Unmarshal([]byte(extractJSON(raw)), &insights); err != nil {
		s.log.Warn("insight response unparseable, serving defaults", zap.Error(err))
		s.metrics.RecordAssistantRequest(ctx, "insights", "parse_error")
		return demoInsights(profile), nil
	}
	s.metrics.RecordAssistantRequest(ctx, "insights", "ok")
	return &insights, nil
}

func (s *service) GenerateMotivation(ctx context.Context, profile *profiledomain.Profile) (string, error) {
	if s.cfg.DemoMode() {
		s.metrics.RecordAssistantRequest(ctx, "motivation", "demo")
		return demoMotivation(profile), nil
	}

	prompt := fmt.Sprintf("Generate a motivational message for someone who has made environmental progress: "+
		"eco score %d, level %d, %d badges earned. Keep it encouraging and under 100 words.",
		profile.EcoScore, profile.Level, len(profile.Badges))
	message, err := s.client.Complete(ctx, prompt, 150)
	if err != nil {
		s.log.Warn("motivation generation failed, serving fallback", zap.Error(err))
		s.metrics.RecordAssistantRequest(ctx, "motivation", "fallback")
		return demoMotivation(profile), nil
	}
	s.metrics.RecordAssistantRequest(ctx, "motivation", "ok")
	return message, nil
}

func normalizeDifficulty(difficulty string) string {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "medium":
		return "Medium"
	case "hard":
		return "Hard"
	default:
		return "Easy"
	}
}

func pointsForDifficulty(difficulty string) int64 {
	switch difficulty {
	case "Hard":
		return 30
	case "Medium":
		return 20
	default:
		return 10
	}
}

// extractJSON strips markdown fences and surrounding prose that completion
// models wrap around JSON payloads.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if start := strings.IndexAny(raw, "{["); start >= 0 {
		end := strings.LastIndexAny(raw, "}]")
		if end > start {
			return raw[start : end+1]
		}
	}
	return raw
}
