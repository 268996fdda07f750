package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	missiondomain "github.com/carbonctrl/carbonctrl/internal/mission/domain"
)

type CreateMissionRequest struct {
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Story       string   `json:"story"`
	Icon        string   `json:"icon"`
	Difficulty  string   `json:"difficulty"`
	Chapters    []string `json:"chapters"`
	CoinReward  int64    `json:"coin_reward"`
	ScoreReward int64    `json:"score_reward"`
	Badge       string   `json:"badge"`
	AR          bool     `json:"ar"`
}

func (s *Server) ListMissions(c *gin.Context) {
	arOnly, _ := strconv.ParseBool(c.Query("ar"))

	missions, err := s.missionSvc.List(c.Request.Context(), arOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"missions": missions})
}

func (s *Server) CreateMission(c *gin.Context) {
	var req CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.missionSvc.Create(c.Request.Context(), missiondomain.CreateRequest{
		Code:        req.Code,
		Title:       req.Title,
		Story:       req.Story,
		Icon:        req.Icon,
		Difficulty:  req.Difficulty,
		Chapters:    req.Chapters,
		CoinReward:  req.CoinReward,
		ScoreReward: req.ScoreReward,
		Badge:       req.Badge,
		AR:          req.AR,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) CompleteMission(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	result, err := s.missionSvc.Complete(c.Request.Context(), user.ID, c.Param("code"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	if !result.AlreadyDone {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (s *Server) ListMissionCompletions(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	completions, err := s.missionSvc.Completions(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completions": completions})
}

func (s *Server) MissionCertificate(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	reader, err := s.missionSvc.Certificate(c.Request.Context(), user.ID, c.Param("code"), user.DisplayName)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="certificate.pdf"`)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", reader, nil)
}
