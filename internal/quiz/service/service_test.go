package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	profilerepo "github.com/carbonctrl/carbonctrl/internal/profile/repository"
	profileservice "github.com/carbonctrl/carbonctrl/internal/profile/service"
	"github.com/carbonctrl/carbonctrl/internal/quiz/domain"
	"github.com/carbonctrl/carbonctrl/internal/quiz/repository"
	"github.com/carbonctrl/carbonctrl/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, profiledomain.Service) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Quiz{}, &domain.Attempt{}, &profiledomain.Profile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	profiles := profileservice.New(zap.NewNop(), profilerepo.New(dbConn), fake)
	repo, attemptRepo := repository.New(dbConn)
	svc := New(zap.NewNop(), repo, attemptRepo, profiles, node, fake, metrics.NewNop())
	return svc, profiles
}

func resolveProfile(t *testing.T, profiles profiledomain.Service, id int64) *profiledomain.Profile {
	t.Helper()
	profile, err := profiles.Resolve(context.Background(), &authdomain.User{
		ID:          snowflake.ID(id),
		Email:       "kai@example.com",
		DisplayName: "Kai",
		Role:        authdomain.RoleStudent,
	})
	if err != nil {
		t.Fatalf("failed to resolve profile: %v", err)
	}
	return profile
}

func twoQuestionQuiz(t *testing.T, svc domain.Service) *domain.Quiz {
	t.Helper()
	quiz, err := svc.Create(context.Background(), domain.CreateRequest{
		Title: "Recycling Basics",
		Questions: []domain.Question{
			{ID: 1, Question: "Which bin for paper?", Options: []string{"Blue", "Black"}, CorrectAnswer: 0, Points: 20},
			{ID: 2, Question: "Compost food waste?", Options: []string{"Yes", "No"}, CorrectAnswer: 0, Points: 20},
		},
	})
	if err != nil {
		t.Fatalf("failed to create quiz: %v", err)
	}
	return quiz
}

func TestCreateDerivesCodeAndPoints(t *testing.T) {
	svc, _ := newTestService(t)

	quiz := twoQuestionQuiz(t, svc)
	if quiz.Code != "recycling-basics" {
		t.Fatalf("expected slug code, got %s", quiz.Code)
	}
	if quiz.Points != 40 {
		t.Fatalf("expected 40 total points, got %d", quiz.Points)
	}

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		Code:      quiz.Code,
		Title:     "Recycling Basics",
		Questions: quiz.Questions,
	})
	if err != domain.ErrQuizExists {
		t.Fatalf("expected ErrQuizExists, got %v", err)
	}
}

func TestCreateRejectsBadQuestions(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		Title: "Broken",
		Questions: []domain.Question{
			{Question: "?", Options: []string{"only one"}, CorrectAnswer: 0, Points: 10},
		},
	})
	if err != domain.ErrInvalidQuiz {
		t.Fatalf("expected ErrInvalidQuiz, got %v", err)
	}
}

func TestGradePerfectScore(t *testing.T) {
	svc, profiles := newTestService(t)
	quiz := twoQuestionQuiz(t, svc)
	profile := resolveProfile(t, profiles, 1)

	result, err := svc.Grade(context.Background(), profile.UserID, quiz.Code, []int{0, 0})
	if err != nil {
		t.Fatalf("failed to grade: %v", err)
	}
	if result.Attempt.Score != 40 || result.Attempt.Percentage != 100 {
		t.Fatalf("expected perfect score, got %d at %d%%", result.Attempt.Score, result.Attempt.Percentage)
	}
	if !result.Attempt.Passed {
		t.Fatal("expected passing attempt")
	}
	// 40/10 is below the floor, so the floor applies
	if result.CoinsAwarded != 5 {
		t.Fatalf("expected 5 coins, got %d", result.CoinsAwarded)
	}
	if result.Badge != domain.PerfectBadge {
		t.Fatalf("expected %s badge, got %q", domain.PerfectBadge, result.Badge)
	}

	reloaded, err := profiles.Get(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if reloaded.EcoCoins != profiledomain.StartingEcoCoins+5 {
		t.Fatalf("expected coins credited, got %d", reloaded.EcoCoins)
	}
	if reloaded.EcoScore != 40 {
		t.Fatalf("expected eco score 40, got %d", reloaded.EcoScore)
	}
	if !reloaded.HasBadge(domain.PerfectBadge) {
		t.Fatal("expected quiz-master badge on profile")
	}
}

func TestGradeFailingScoreAwardsNothing(t *testing.T) {
	svc, profiles := newTestService(t)
	quiz := twoQuestionQuiz(t, svc)
	profile := resolveProfile(t, profiles, 1)

	result, err := svc.Grade(context.Background(), profile.UserID, quiz.Code, []int{1, 0})
	if err != nil {
		t.Fatalf("failed to grade: %v", err)
	}
	if result.Attempt.Percentage != 50 || result.Attempt.Passed {
		t.Fatalf("expected failing 50%%, got %d%% passed=%v", result.Attempt.Percentage, result.Attempt.Passed)
	}
	if result.CoinsAwarded != 0 {
		t.Fatalf("expected no coins, got %d", result.CoinsAwarded)
	}

	reloaded, err := profiles.Get(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("failed to reload profile: %v", err)
	}
	if reloaded.EcoCoins != profiledomain.StartingEcoCoins {
		t.Fatalf("expected untouched balance, got %d", reloaded.EcoCoins)
	}
	if reloaded.EcoScore != 20 {
		t.Fatalf("expected partial score still recorded, got %d", reloaded.EcoScore)
	}
}

func TestGradeAnswerMismatch(t *testing.T) {
	svc, profiles := newTestService(t)
	quiz := twoQuestionQuiz(t, svc)
	profile := resolveProfile(t, profiles, 1)

	_, err := svc.Grade(context.Background(), profile.UserID, quiz.Code, []int{0})
	if err != domain.ErrAnswerMismatch {
		t.Fatalf("expected ErrAnswerMismatch, got %v", err)
	}
}

func TestAttemptsListedNewestFirst(t *testing.T) {
	svc, profiles := newTestService(t)
	quiz := twoQuestionQuiz(t, svc)
	profile := resolveProfile(t, profiles, 1)

	for i := 0; i < 2; i++ {
		if _, err := svc.Grade(context.Background(), profile.UserID, quiz.Code, []int{0, 0}); err != nil {
			t.Fatalf("failed to grade: %v", err)
		}
	}

	attempts, err := svc.Attempts(context.Background(), profile.UserID)
	if err != nil {
		t.Fatalf("failed to list attempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
}
