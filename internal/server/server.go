package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/carbonctrl/carbonctrl/internal/assistant"
	"github.com/carbonctrl/carbonctrl/internal/auth"
	authdomain "github.com/carbonctrl/carbonctrl/internal/auth/domain"
	authoauth "github.com/carbonctrl/carbonctrl/internal/auth/oauth"
	"github.com/carbonctrl/carbonctrl/internal/auth/session"
	"github.com/carbonctrl/carbonctrl/internal/authorization"
	"github.com/carbonctrl/carbonctrl/internal/config"
	"github.com/carbonctrl/carbonctrl/internal/envdata"
	"github.com/carbonctrl/carbonctrl/internal/game"
	gamedomain "github.com/carbonctrl/carbonctrl/internal/game/domain"
	"github.com/carbonctrl/carbonctrl/internal/leaderboard"
	"github.com/carbonctrl/carbonctrl/internal/mission"
	missiondomain "github.com/carbonctrl/carbonctrl/internal/mission/domain"
	"github.com/carbonctrl/carbonctrl/internal/observability"
	obslogger "github.com/carbonctrl/carbonctrl/internal/observability/logger"
	obsmetrics "github.com/carbonctrl/carbonctrl/internal/observability/metrics"
	obstracing "github.com/carbonctrl/carbonctrl/internal/observability/tracing"
	"github.com/carbonctrl/carbonctrl/internal/profile"
	profiledomain "github.com/carbonctrl/carbonctrl/internal/profile/domain"
	"github.com/carbonctrl/carbonctrl/internal/providers/pdf"
	"github.com/carbonctrl/carbonctrl/internal/quiz"
	quizdomain "github.com/carbonctrl/carbonctrl/internal/quiz/domain"
	"github.com/carbonctrl/carbonctrl/internal/ratelimit"
	"github.com/carbonctrl/carbonctrl/internal/reward"
	rewarddomain "github.com/carbonctrl/carbonctrl/internal/reward/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	session.Module,
	profile.Module,
	quiz.Module,
	game.Module,
	mission.Module,
	pdf.Module,
	leaderboard.Module,
	reward.Module,
	ratelimit.Module,
	assistant.Module,
	envdata.Module,
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine           *gin.Engine
	log              *zap.Logger
	cfg              config.Config
	db               *gorm.DB
	authsvc          authdomain.Service
	oauthsvc         authoauth.Service
	sessions         *session.Manager
	genID            *snowflake.Node
	authzSvc         authorization.Service
	profileSvc       profiledomain.Service
	quizSvc          quizdomain.Service
	gameSvc          gamedomain.Service
	missionSvc       missiondomain.Service
	leaderboardSvc   leaderboard.Service
	rewardSvc        rewarddomain.Service
	assistantSvc     assistant.Service
	envdataSvc       envdata.Service
	assistantLimiter *ratelimit.AssistantLimiter
	obsMetrics       *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	Log              *zap.Logger
	Cfg              config.Config
	DB               *gorm.DB
	Authsvc          authdomain.Service
	OAuthsvc         authoauth.Service
	Sessions         *session.Manager
	GenID            *snowflake.Node
	AuthzSvc         authorization.Service
	ProfileSvc       profiledomain.Service
	QuizSvc          quizdomain.Service
	GameSvc          gamedomain.Service
	MissionSvc       missiondomain.Service
	LeaderboardSvc   leaderboard.Service
	RewardSvc        rewarddomain.Service
	AssistantSvc     assistant.Service
	EnvdataSvc       envdata.Service
	AssistantLimiter *ratelimit.AssistantLimiter `optional:"true"`
	ObsMetrics       *obsmetrics.Metrics         `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:           p.Gin,
		log:              p.Log.Named("http.server"),
		cfg:              p.Cfg,
		db:               p.DB,
		authsvc:          p.Authsvc,
		oauthsvc:         p.OAuthsvc,
		sessions:         p.Sessions,
		genID:            p.GenID,
		authzSvc:         p.AuthzSvc,
		profileSvc:       p.ProfileSvc,
		quizSvc:          p.QuizSvc,
		gameSvc:          p.GameSvc,
		missionSvc:       p.MissionSvc,
		leaderboardSvc:   p.LeaderboardSvc,
		rewardSvc:        p.RewardSvc,
		assistantSvc:     p.AssistantSvc,
		envdataSvc:       p.EnvdataSvc,
		assistantLimiter: p.AssistantLimiter,
		obsMetrics:       p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerUIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/signup", s.SignUp)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.Me)
	authGroup.GET("/providers", s.AuthProviders)
	authGroup.GET("/callback/:name", s.OAuthCallback)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Profile --------
	api.GET("/profile", s.authorize(authorization.ObjectProfile, authorization.ActionView), s.GetProfile)
	api.PATCH("/profile", s.authorize(authorization.ObjectProfile, authorization.ActionUpdate), s.UpdateProfile)

	// -------- Quizzes --------
	api.GET("/quizzes", s.authorize(authorization.ObjectQuiz, authorization.ActionView), s.ListQuizzes)
	api.POST("/quizzes", s.authorize(authorization.ObjectQuiz, authorization.ActionQuizCreate), s.CreateQuiz)
	api.POST("/quizzes/generate", s.authorize(authorization.ObjectQuiz, authorization.ActionQuizGenerate), s.AssistantRateLimit(), s.GenerateQuiz)
	api.GET("/quizzes/attempts", s.authorize(authorization.ObjectQuiz, authorization.ActionView), s.ListQuizAttempts)
	api.GET("/quizzes/:code", s.authorize(authorization.ObjectQuiz, authorization.ActionView), s.GetQuiz)
	api.POST("/quizzes/:code/grade", s.authorize(authorization.ObjectQuiz, authorization.ActionPlay), s.GradeQuiz)

	// -------- Games --------
	api.GET("/games", s.authorize(authorization.ObjectGame, authorization.ActionView), s.ListGames)
	api.GET("/games/records", s.authorize(authorization.ObjectGame, authorization.ActionView), s.ListGameRecords)
	api.POST("/games/:code/score", s.authorize(authorization.ObjectGame, authorization.ActionPlay), s.SubmitGameScore)

	// -------- Missions --------
	api.GET("/missions", s.authorize(authorization.ObjectMission, authorization.ActionView), s.ListMissions)
	api.POST("/missions", s.authorize(authorization.ObjectMission, authorization.ActionMissionCreate), s.CreateMission)
	api.GET("/missions/completions", s.authorize(authorization.ObjectMission, authorization.ActionView), s.ListMissionCompletions)
	api.POST("/missions/:code/complete", s.authorize(authorization.ObjectMission, authorization.ActionPlay), s.CompleteMission)
	api.GET("/missions/:code/certificate", s.authorize(authorization.ObjectMission, authorization.ActionView), s.MissionCertificate)

	// -------- Leaderboard --------
	api.GET("/leaderboard", s.authorize(authorization.ObjectLeaderboard, authorization.ActionView), s.GetLeaderboard)
	api.GET("/leaderboard/me", s.authorize(authorization.ObjectLeaderboard, authorization.ActionView), s.GetMyStanding)

	// -------- Rewards --------
	api.GET("/rewards", s.authorize(authorization.ObjectReward, authorization.ActionView), s.ListRewards)
	api.POST("/rewards/:code/redeem", s.authorize(authorization.ObjectReward, authorization.ActionRedeem), s.RedeemReward)
	api.GET("/rewards/redemptions", s.authorize(authorization.ObjectReward, authorization.ActionView), s.ListRedemptions)

	// -------- Assistant --------
	api.POST("/assistant/ask", s.authorize(authorization.ObjectAssistant, authorization.ActionAsk), s.AssistantRateLimit(), s.AskAssistant)
	api.GET("/assistant/insights", s.authorize(authorization.ObjectAssistant, authorization.ActionAsk), s.AssistantRateLimit(), s.AssistantInsights)
	api.GET("/assistant/motivation", s.authorize(authorization.ObjectAssistant, authorization.ActionAsk), s.AssistantRateLimit(), s.AssistantMotivation)

	// -------- Environment --------
	api.GET("/environment", s.authorize(authorization.ObjectEnvData, authorization.ActionView), s.GetEnvironment)
	api.GET("/environment/recycling-centers", s.authorize(authorization.ObjectEnvData, authorization.ActionView), s.ListRecyclingCenters)
}
