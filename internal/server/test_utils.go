package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/carbonctrl/carbonctrl/internal/assistant"
	authconfig "github.com/carbonctrl/carbonctrl/internal/auth/config"
	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	authoauth "github.com/carbonctrl/carbonctrl/internal/auth/oauth"
	authrepo "github.com/carbonctrl/carbonctrl/internal/auth/repository"
	authservice "github.com/carbonctrl/carbonctrl/internal/auth/service"
	"github.com/carbonctrl/carbonctrl/internal/auth/events"
	"github.com/carbonctrl/carbonctrl/internal/auth/session"
	"github.com/carbonctrl/carbonctrl/internal/authorization"
	"github.com/carbonctrl/carbonctrl/internal/clock"
	"github.com/carbonctrl/carbonctrl/internal/config"
	"github.com/carbonctrl/carbonctrl/internal/envdata"
	gamedomain "github.com/carbonctrl/carbonctrl/internal/game/domain"
	gamerepo "github.com/carbonctrl/carbonctrl/internal/game/repository"
	gameservice "github.com/carbonctrl/carbonctrl/internal/game/service"
	"github.com/carbonctrl/carbonctrl/internal/leaderboard"
	missiondomain "github.com/carbonctrl/carbonctrl/internal/mission/domain"
	missionrepo "github.com/carbonctrl/carbonctrl/internal/mission/repository"
	missionservice "github.com/carbonctrl/carbonctrl/internal/mission/service"
	"github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	profilerepo "github.com/carbonctrl/carbonctrl/internal/profile/repository"
	profileservice "github.com/carbonctrl/carbonctrl/internal/profile/service"
	"github.com/carbonctrl/carbonctrl/internal/providers/pdf"
	quizdomain "github.com/carbonctrl/carbonctrl/internal/quiz/domain"
	quizrepo "github.com/carbonctrl/carbonctrl/internal/quiz/repository"
	quizservice "github.com/carbonctrl/carbonctrl/internal/quiz/service"
	rewarddomain "github.com/carbonctrl/carbonctrl/internal/reward/domain"
	rewardrepo "github.com/carbonctrl/carbonctrl/internal/reward/repository"
	rewardservice "github.com/carbonctrl/carbonctrl/internal/reward/service"
	"github.com/carbonctrl/carbonctrl/pkg/db"
	"gorm.io/gorm"
)

// newTestServer wires the full handler stack over sqlite. The assistant and
// environment services run in demo mode so no network is touched.
func newTestServer(t *testing.T) (*Server, *gorm.DB, *clock.FakeClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "public"), 0o755); err != nil {
		t.Fatalf("failed to create public dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "public", "index.html"), []byte("<html>carbonctrl</html>"), 0o644); err != nil {
		t.Fatalf("failed to write index: %v", err)
	}
	t.Chdir(dir)

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&authdomain.User{}, &authdomain.Session{},
		&profiledomain.Profile{},
		&quizdomain.Quiz{}, &quizdomain.Attempt{},
		&gamedomain.Game{}, &gamedomain.ScoreRecord{},
		&missiondomain.Mission{}, &missiondomain.Completion{},
		&rewarddomain.Redemption{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	log := zap.NewNop()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	m := metrics.NewNop()

	enforcer, err := authorization.NewEnforcer(dbConn)
	if err != nil {
		t.Fatalf("failed to build enforcer: %v", err)
	}
	authzSvc := authorization.NewService(authorization.Params{Log: log, Enforcer: enforcer})

	userRepo, sessionRepo := authrepo.New(dbConn)
	authSvc := authservice.New(log, userRepo, sessionRepo, node, fake, events.NewHub())

	profileRepo := profilerepo.New(dbConn)
	profileSvc := profileservice.New(log, profileRepo, fake)

	quizRepo, attemptRepo := quizrepo.New(dbConn)
	quizSvc := quizservice.New(log, quizRepo, attemptRepo, profileSvc, node, fake, m)

	gameRepo, scoreRepo := gamerepo.New(dbConn)
	gameSvc := gameservice.New(log, gameRepo, scoreRepo, profileSvc, node, fake, m)

	missionRepo, completionRepo := missionrepo.New(dbConn)
	missionSvc := missionservice.New(log, missionRepo, completionRepo, profileSvc, pdf.New(), node, fake, m)

	catalog, err := config.NewRewardCatalogHolder()
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	rewardSvc := rewardservice.New(log, rewardrepo.New(dbConn), catalog, profileSvc, node, fake, m)

	assistantCfg := config.AssistantConfig{}
	assistantSvc := assistant.New(log, assistantCfg, assistant.NewClient(log, assistantCfg), m)

	envdataCfg := config.EnvDataConfig{}
	envdataSvc := envdata.New(log, envdataCfg, envdata.NewClient(envdataCfg), fake)

	cfg := config.Config{Environment: "test", HTTPAddr: ":0"}

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:            engine,
		Log:            log,
		Cfg:            cfg,
		DB:             dbConn,
		Authsvc:        authSvc,
		OAuthsvc:       authoauth.NewService(authconfig.AuthProviderRegistry{}),
		Sessions:       session.NewManager(cfg),
		GenID:          node,
		AuthzSvc:       authzSvc,
		ProfileSvc:     profileSvc,
		QuizSvc:        quizSvc,
		GameSvc:        gameSvc,
		MissionSvc:     missionSvc,
		LeaderboardSvc: leaderboard.New(log, profileRepo),
		RewardSvc:      rewardSvc,
		AssistantSvc:   assistantSvc,
		EnvdataSvc:     envdataSvc,
	})

	return srv, dbConn, fake
}

func doJSON(t *testing.T, srv *Server, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == session.DefaultCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("expected session cookie in response")
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode body %q: %v", rec.Body.String(), err)
	}
}
