package authorization

import (
	"context"
	"testing"

	"github.com/carbonctrl/carbonctrl/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	enforcer, err := NewEnforcer(dbConn)
	if err != nil {
		t.Fatalf("failed to build enforcer: %v", err)
	}
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestStudentCanPlayButNotAuthor(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "1", "student", ObjectQuiz, ActionPlay); err != nil {
		t.Fatalf("expected student to play quizzes, got %v", err)
	}
	if err := svc.Authorize(ctx, "1", "student", ObjectQuiz, ActionQuizCreate); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for student quiz authoring, got %v", err)
	}
	if err := svc.Authorize(ctx, "1", "student", ObjectReward, ActionRewardManage); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for student reward management, got %v", err)
	}
}

func TestTeacherInheritsStudent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "2", "teacher", ObjectQuiz, ActionQuizCreate); err != nil {
		t.Fatalf("expected teacher to author quizzes, got %v", err)
	}
	if err := svc.Authorize(ctx, "2", "teacher", ObjectGame, ActionPlay); err != nil {
		t.Fatalf("expected teacher to inherit student play, got %v", err)
	}
	if err := svc.Authorize(ctx, "2", "teacher", ObjectUser, ActionUserManage); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for teacher user management, got %v", err)
	}
}

func TestAdminInheritsEverything(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "3", "admin", ObjectUser, ActionUserManage); err != nil {
		t.Fatalf("expected admin user management, got %v", err)
	}
	if err := svc.Authorize(ctx, "3", "admin", ObjectQuiz, ActionQuizCreate); err != nil {
		t.Fatalf("expected admin to inherit teacher authoring, got %v", err)
	}
	if err := svc.Authorize(ctx, "3", "admin", ObjectQuiz, ActionPlay); err != nil {
		t.Fatalf("expected admin to inherit student play, got %v", err)
	}
}

func TestRoleChangeReplacesGrouping(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Authorize(ctx, "4", "teacher", ObjectQuiz, ActionQuizCreate); err != nil {
		t.Fatalf("expected teacher authoring, got %v", err)
	}

	// demoted accounts lose the old role's grants
	if err := svc.Authorize(ctx, "4", "student", ObjectQuiz, ActionQuizCreate); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden after demotion, got %v", err)
	}
}

func TestInvalidActor(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Authorize(context.Background(), "", "student", ObjectQuiz, ActionPlay); err != ErrInvalidActor {
		t.Fatalf("expected ErrInvalidActor, got %v", err)
	}
}
