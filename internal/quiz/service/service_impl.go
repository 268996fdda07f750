package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	"github.com/carbonctrl/carbonctrl/internal/quiz/domain"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const minPassingCoins = 5

type Service struct {
	log         *zap.Logger
	repo        domain.Repository
	attemptRepo domain.AttemptRepository
	profiles    profiledomain.Service
	genID       *snowflake.Node
	clock       clock.Clock
	metrics     *metrics.Metrics
}

func New(log *zap.Logger, repo domain.Repository, attemptRepo domain.AttemptRepository, profiles profiledomain.Service, genID *snowflake.Node, clk clock.Clock, m *metrics.Metrics) domain.Service {
	return &Service{
		log:         log.Named("quiz.service"),
		repo:        repo,
		attemptRepo: attemptRepo,
		profiles:    profiles,
		genID:       genID,
		clock:       clk,
		metrics:     m,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, code string) (*domain.Quiz, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrQuizNotFound
	}
	return s.repo.FindByCode(ctx, code)
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Quiz, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || len(req.Questions) == 0 {
		return nil, domain.ErrInvalidQuiz
	}
	for _, q := range req.Questions {
		if len(q.Options) < 2 || q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, domain.ErrInvalidQuiz
		}
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = slug.Make(title)
	}
	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, domain.ErrQuizExists
	} else if err != domain.ErrQuizNotFound {
		return nil, err
	}

	quiz := &domain.Quiz{
		ID:          s.genID.Generate(),
		Code:        code,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Icon:        strings.TrimSpace(req.Icon),
		Difficulty:  normalizeDifficulty(req.Difficulty),
		Questions:   req.Questions,
		Generated:   req.Generated,
		CreatedBy:   req.CreatedBy,
	}
	quiz.Points = quiz.TotalPoints()

	if err := s.repo.Create(ctx, quiz); err != nil {
		return nil, err
	}

	s.log.Info("created quiz",
		zap.String("code", quiz.Code),
		zap.Int("questions", len(quiz.Questions)),
		zap.Bool("generated", quiz.Generated),
	)
	return quiz, nil
}

func (s *Service) Grade(ctx context.Context, userID snowflake.ID, code string, answers []int) (*domain.GradeResult, error) {
	quiz, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(answers) != len(quiz.Questions) {
		return nil, domain.ErrAnswerMismatch
	}

	var score int64
	for i, question := range quiz.Questions {
		if answers[i] == question.CorrectAnswer {
			score += question.Points
		}
	}
	total := quiz.TotalPoints()

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(score) / float64(total) * 100))
	}
	passed := percentage >= domain.PassingPercentage

	var coins int64
	if passed {
		coins = score / 10
		if coins < minPassingCoins {
			coins = minPassingCoins
		}
	}

	attempt := &domain.Attempt{
		ID:           s.genID.Generate(),
		QuizID:       quiz.ID,
		UserID:       userID,
		Score:        score,
		TotalPoints:  total,
		Percentage:   percentage,
		Passed:       passed,
		CoinsAwarded: coins,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.attemptRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	badge := ""
	if percentage == 100 {
		badge = domain.PerfectBadge
	}
	if _, err := s.profiles.Award(ctx, userID, profiledomain.Award{
		EcoCoins: coins,
		EcoScore: score,
		Badge:    badge,
	}); err != nil {
		return nil, err
	}

	s.metrics.RecordQuizAttempt(ctx, quiz.Code, passed)
	if coins > 0 {
		s.metrics.RecordCoinsAwarded(ctx, "quiz", coins)
	}

	return &domain.GradeResult{
		Attempt:      attempt,
		CoinsAwarded: coins,
		ScoreAwarded: score,
		Badge:        badge,
	}, nil
}

func (s *Service) Attempts(ctx context.Context, userID snowflake.ID) ([]domain.Attempt, error) {
	return s.attemptRepo.ListAttempts(ctx, userID)
}

func normalizeDifficulty(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "medium":
		return "Medium"
	case "hard":
		return "Hard"
	default:
		return "Easy"
	}
}
